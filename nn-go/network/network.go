package network

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	humanize "github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/mat"
)

// Network is a feed-forward binary classifier: one or more sigmoid hidden
// layers followed by a single sigmoid output unit.
type Network struct {
	Layers []*Dense
}

// New builds a network with the given input width and hidden layer widths.
// Weights are drawn from N(0, 0.05^2) using seed; biases start at zero.
func New(inputs int, hidden []int, seed int64) (*Network, error) {
	if inputs < 1 {
		return nil, errors.Config(nil, "network needs at least one input, got %d", inputs)
	}
	if len(hidden) == 0 {
		return nil, errors.Config(nil, "network needs at least one hidden layer")
	}

	rng := rand.New(rand.NewSource(seed))
	n := &Network{}
	width := inputs
	for i, units := range hidden {
		if units < 1 {
			return nil, errors.Config(nil, "hidden layer %d has %d units", i+1, units)
		}
		n.Layers = append(n.Layers, newDense(hiddenName(i), width, units, rng))
		width = units
	}
	n.Layers = append(n.Layers, newDense("output", width, 1, rng))
	return n, nil
}

func hiddenName(i int) string {
	if i == 0 {
		return "hidden"
	}
	return fmt.Sprintf("hidden%d", i+1)
}

// Inputs returns the input width.
func (n *Network) Inputs() int {
	return n.Layers[0].Inputs()
}

// Params returns the number of trainable parameters.
func (n *Network) Params() int {
	var total int
	for _, l := range n.Layers {
		total += l.Params()
	}
	return total
}

// params lists the parameter storage of every layer: weights then bias.
func (n *Network) params() [][]float64 {
	var ps [][]float64
	for _, l := range n.Layers {
		ps = append(ps, l.W.RawMatrix().Data, l.B)
	}
	return ps
}

func (n *Network) forward(x *mat.Dense) []*mat.Dense {
	acts := []*mat.Dense{x}
	a := x
	for _, l := range n.Layers {
		a = l.forward(a)
		acts = append(acts, a)
	}
	return acts
}

func (n *Network) predict(x *mat.Dense) []float64 {
	acts := n.forward(x)
	return mat.Col(nil, 0, acts[len(acts)-1])
}

// Predict returns the signal probability of each row of x.
func (n *Network) Predict(x [][]float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, nil
	}
	m, err := toDense(x, n.Inputs())
	if err != nil {
		return nil, err
	}
	return n.predict(m), nil
}

// gradients runs one forward and backward pass over a batch. It returns the
// weighted loss, the gradient of every slice in params() order, and the
// predictions.
func (n *Network) gradients(x *mat.Dense, y, w []float64) (float64, [][]float64, []float64) {
	acts := n.forward(x)
	rows, _ := x.Dims()
	p := mat.Col(nil, 0, acts[len(acts)-1])
	loss := BinaryCrossEntropy(y, p, w)

	// sigmoid output with cross-entropy: dL/dz = w*(p-y)/n
	delta := mat.NewDense(rows, 1, nil)
	for i := range p {
		delta.Set(i, 0, w[i]*(p[i]-y[i])/float64(rows))
	}

	grads := make([][]float64, 2*len(n.Layers))
	for li := len(n.Layers) - 1; li >= 0; li-- {
		l := n.Layers[li]

		var gw mat.Dense
		gw.Mul(acts[li].T(), delta)
		gb := make([]float64, l.Units())
		for i := 0; i < rows; i++ {
			for j := range gb {
				gb[j] += delta.At(i, j)
			}
		}
		grads[2*li], grads[2*li+1] = gw.RawMatrix().Data, gb

		if li == 0 {
			break
		}
		prev := acts[li]
		var da mat.Dense
		da.Mul(delta, l.W.T())
		da.Apply(func(i, j int, v float64) float64 {
			a := prev.At(i, j)
			return v * a * (1 - a)
		}, &da)
		delta = &da
	}
	return loss, grads, p
}

// Summary writes a per-layer table of output shapes and parameter counts.
func (n *Network) Summary(w io.Writer) {
	rule := strings.Repeat("_", 65)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-29s%-26s%s\n", "Layer (type)", "Output Shape", "Param #")
	fmt.Fprintln(w, strings.Repeat("=", 65))
	for i, l := range n.Layers {
		name := fmt.Sprintf("%s (Dense)", l.Name)
		shape := fmt.Sprintf("(None, %d)", l.Units())
		fmt.Fprintf(w, "%-29s%-26s%s\n", name, shape, humanize.Comma(int64(l.Params())))
		if i < len(n.Layers)-1 {
			fmt.Fprintln(w, rule)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 65))
	total := humanize.Comma(int64(n.Params()))
	fmt.Fprintf(w, "Total params: %s\n", total)
	fmt.Fprintf(w, "Trainable params: %s\n", total)
	fmt.Fprintln(w, "Non-trainable params: 0")
	fmt.Fprintln(w, rule)
}

func toDense(x [][]float64, cols int) (*mat.Dense, error) {
	m := mat.NewDense(len(x), cols, nil)
	for i, row := range x {
		if len(row) != cols {
			return nil, errors.Schema(nil, "row %d has %d values, network takes %d", i, len(row), cols)
		}
		m.SetRow(i, row)
	}
	return m, nil
}
