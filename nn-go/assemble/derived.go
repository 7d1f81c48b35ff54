package assemble

import (
	"math"
	"sort"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/events"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// Derivation computes an extra network input from raw event columns.
type Derivation struct {
	Name    string
	Sources []string
	Compute func(src [][]float64, r int) float64
}

var derivations = map[string]Derivation{
	"dEtajj": {
		Name:    "dEtajj",
		Sources: []string{"jeta_1", "jeta_2"},
		Compute: func(src [][]float64, r int) float64 {
			return math.Abs(src[0][r] - src[1][r])
		},
	},
	"dPhijj": {
		Name:    "dPhijj",
		Sources: []string{"jphi_1", "jphi_2"},
		Compute: func(src [][]float64, r int) float64 {
			return deltaPhi(src[0][r], src[1][r])
		},
	},
}

// Derivations lists the registered derived input names.
func Derivations() []string {
	var names []string
	for name := range derivations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DerivationByName returns the registered derivation.
func DerivationByName(name string) (Derivation, error) {
	d, ok := derivations[name]
	if !ok {
		return Derivation{}, errors.Config(nil, "unknown derived input %q, expected one of %v", name, Derivations())
	}
	return d, nil
}

// Apply computes the derivation over t and appends it as a new column.
func (d Derivation) Apply(t *events.Table) (*events.Table, int, error) {
	src := make([][]float64, len(d.Sources))
	for i, name := range d.Sources {
		col, err := t.Column(name)
		if err != nil {
			return nil, 0, err
		}
		src[i] = col
	}
	values := make([]float64, t.Len())
	for r := range values {
		values[r] = d.Compute(src, r)
	}
	return AddInput(t, d.Name, values)
}

// AddInput appends a user-defined input column and returns the new table along
// with the number of inputs added.
func AddInput(t *events.Table, name string, values []float64) (*events.Table, int, error) {
	out, err := t.WithColumn(name, values)
	if err != nil {
		return nil, 0, err
	}
	return out, 1, nil
}

// deltaPhi returns |a-b| folded into [0, pi].
func deltaPhi(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
