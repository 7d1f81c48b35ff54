package network

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid is the only activation the classifier uses.
const Sigmoid = "sigmoid"

// initStdDev is the standard deviation of the normal weight initializer.
const initStdDev = 0.05

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Dense is a fully connected layer with a sigmoid activation.
type Dense struct {
	Name string
	// W has one row per input and one column per unit.
	W *mat.Dense
	B []float64
}

func newDense(name string, inputs, units int, rng *rand.Rand) *Dense {
	data := make([]float64, inputs*units)
	for i := range data {
		data[i] = rng.NormFloat64() * initStdDev
	}
	return &Dense{
		Name: name,
		W:    mat.NewDense(inputs, units, data),
		B:    make([]float64, units),
	}
}

// Inputs returns the layer's input width.
func (l *Dense) Inputs() int {
	r, _ := l.W.Dims()
	return r
}

// Units returns the layer's output width.
func (l *Dense) Units() int {
	_, c := l.W.Dims()
	return c
}

// Params returns the number of trainable parameters.
func (l *Dense) Params() int {
	return l.Inputs()*l.Units() + l.Units()
}

func (l *Dense) forward(x mat.Matrix) *mat.Dense {
	var z mat.Dense
	z.Mul(x, l.W)
	z.Apply(func(_, j int, v float64) float64 {
		return sigmoid(v + l.B[j])
	}, &z)
	return &z
}
