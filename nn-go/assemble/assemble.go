package assemble

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/events"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

const (
	// LabelColumn holds the class label: 1 for signal, 0 for background.
	LabelColumn = "isSignal"
	// WeightColumn holds the per-event training weight.
	WeightColumn = "weight"
	// ReferenceColumn holds the precomputed reference discriminant.
	ReferenceColumn = "Dbkg_VBF"
)

// Class tags a sample as signal or background.
type Class string

const (
	// Signal samples are labeled 1.
	Signal Class = "sig"
	// Background samples are labeled 0.
	Background Class = "bkg"
)

// Label returns the training label for the class.
func (c Class) Label() float64 {
	if c == Signal {
		return 1
	}
	return 0
}

// Result is the output of assembling one input file.
type Result struct {
	// Features holds the input columns followed by LabelColumn and WeightColumn.
	Features *events.Table
	// Reference holds ReferenceColumn and LabelColumn for the events passing the
	// selection's reference predicate.
	Reference *events.Table
	// UserInputs counts the derived input columns added to Features.
	UserInputs int
}

// Inputs returns the network input column names of Features.
func (r Result) Inputs() []string {
	cols := r.Features.Columns()
	return cols[:len(cols)-2]
}

// Assembler turns raw event files into labeled, weighted training tables.
type Assembler struct {
	Reader    events.Reader
	Selection Selection
	// NJet disables the background two-jet gate.
	NJet bool
	// Derived names registered derived inputs to append after the variables.
	Derived []string
}

// Massage reads one file of the given class and returns its feature table and
// reference table. Only the requested variables, derived inputs, label and
// weight survive in Features; selection-only columns are dropped.
func (a Assembler) Massage(vars []string, path string, class Class) (Result, error) {
	if len(vars) == 0 {
		return Result{}, errors.Config(nil, "no feature variables requested")
	}
	if class != Signal && class != Background {
		return Result{}, errors.Config(nil, "unknown sample class %q", class)
	}
	if err := a.Selection.CheckInputs(append(append([]string(nil), vars...), a.Derived...)); err != nil {
		return Result{}, err
	}

	derivations := make([]Derivation, 0, len(a.Derived))
	for _, name := range a.Derived {
		d, err := DerivationByName(name)
		if err != nil {
			return Result{}, err
		}
		derivations = append(derivations, d)
	}

	columns := uniq(vars)
	for _, d := range derivations {
		columns = uniq(columns, d.Sources...)
	}
	columns = uniq(columns, a.Selection.auxColumns(class, a.NJet)...)

	raw, err := a.Reader.Read(path, columns)
	if err != nil {
		return Result{}, err
	}

	reference, err := a.reference(raw, class)
	if err != nil {
		return Result{}, errors.Wrapf(err, "reference events of %s", path)
	}

	keep, err := a.Selection.TrainingPredicate(raw, vars, class, a.NJet)
	if err != nil {
		return Result{}, errors.Wrapf(err, "selecting %s", path)
	}
	selected := raw.Filter(keep)

	inputs := append([]string(nil), vars...)
	var added int
	for _, d := range derivations {
		var n int
		selected, n, err = d.Apply(selected)
		if err != nil {
			return Result{}, errors.Wrapf(err, "deriving %s for %s", d.Name, path)
		}
		added += n
		inputs = append(inputs, d.Name)
	}

	weights := events.Constant(selected.Len(), 1)
	if a.Selection.EventWeightColumn != "" {
		if weights, err = selected.Column(a.Selection.EventWeightColumn); err != nil {
			return Result{}, err
		}
	}

	features, err := selected.Select(inputs...)
	if err != nil {
		return Result{}, err
	}
	if features, err = features.WithColumn(LabelColumn, events.Constant(selected.Len(), class.Label())); err != nil {
		return Result{}, err
	}
	if features, err = features.WithColumn(WeightColumn, weights); err != nil {
		return Result{}, err
	}

	return Result{
		Features:   features,
		Reference:  reference,
		UserInputs: added,
	}, nil
}

func (a Assembler) reference(raw *events.Table, class Class) (*events.Table, error) {
	keep, err := a.Selection.ReferenceFilter(raw)
	if err != nil {
		return nil, err
	}
	ref, err := raw.Filter(keep).Select(a.Selection.ReferenceColumn)
	if err != nil {
		return nil, err
	}
	return ref.WithColumn(LabelColumn, events.Constant(ref.Len(), class.Label()))
}

// Combine stacks a signal and a background result, signal first.
func Combine(sig, bkg Result) (Result, error) {
	if sig.UserInputs != bkg.UserInputs {
		return Result{}, errors.Schema(nil, "signal has %d derived inputs, background has %d", sig.UserInputs, bkg.UserInputs)
	}
	features, err := events.Concat(sig.Features, bkg.Features)
	if err != nil {
		return Result{}, errors.Wrapf(err, "combining feature tables")
	}
	reference, err := events.Concat(sig.Reference, bkg.Reference)
	if err != nil {
		return Result{}, errors.Wrapf(err, "combining reference tables")
	}
	return Result{Features: features, Reference: reference, UserInputs: sig.UserInputs}, nil
}

// uniq appends names to base, skipping any already present.
func uniq(base []string, names ...string) []string {
	seen := make(map[string]bool, len(base)+len(names))
	var out []string
	for _, name := range append(append([]string(nil), base...), names...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
