package dataset

import (
	"math"
	"math/rand"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/assemble"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/events"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// DefaultTestFraction is the share of events held out for testing.
const DefaultTestFraction = 0.2

// Partition is a set of events ready for the network.
type Partition struct {
	X [][]float64
	Y []float64
	W []float64
}

// Len returns the number of events.
func (p Partition) Len() int {
	return len(p.Y)
}

func (p Partition) subset(idx []int) Partition {
	out := Partition{
		X: make([][]float64, len(idx)),
		Y: make([]float64, len(idx)),
		W: make([]float64, len(idx)),
	}
	for i, k := range idx {
		out.X[i], out.Y[i], out.W[i] = p.X[k], p.Y[k], p.W[k]
	}
	return out
}

// Split holds the train+validation and test partitions.
type Split struct {
	Train Partition
	Test  Partition
}

// TrainTestSplit shuffles with a generator seeded by seed and holds out
// ceil(testFraction*n) events for testing. Equal seeds give equal splits.
func TrainTestSplit(p Partition, testFraction float64, seed int64) (Split, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, errors.Config(nil, "test fraction %v outside (0, 1)", testFraction)
	}
	n := p.Len()
	if n == 0 {
		return Split{}, ErrEmpty
	}
	nTest := int(math.Ceil(testFraction * float64(n)))
	if n < 2 || nTest >= n {
		return Split{}, errors.Errorf("cannot split %d events with test fraction %v", n, testFraction)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return Split{
		Train: p.subset(perm[nTest:]),
		Test:  p.subset(perm[:nTest]),
	}, nil
}

// FromTable extracts the input columns, labels and weights of an assembled
// feature table.
func FromTable(features *events.Table, inputs []string) (Partition, error) {
	x, err := features.Matrix(inputs...)
	if err != nil {
		return Partition{}, err
	}
	y, err := features.Column(assemble.LabelColumn)
	if err != nil {
		return Partition{}, err
	}
	w, err := features.Column(assemble.WeightColumn)
	if err != nil {
		return Partition{}, err
	}
	return Partition{
		X: x,
		Y: append([]float64(nil), y...),
		W: append([]float64(nil), w...),
	}, nil
}

// FinalFormatting splits the combined feature table into train+validation and
// test partitions, fits a scaler on the training inputs, and scales both
// partitions with it.
func FinalFormatting(features *events.Table, inputs []string, testFraction float64, seed int64) (Split, *StandardScaler, error) {
	p, err := FromTable(features, inputs)
	if err != nil {
		return Split{}, nil, err
	}
	split, err := TrainTestSplit(p, testFraction, seed)
	if err != nil {
		return Split{}, nil, err
	}

	scaler := &StandardScaler{}
	if split.Train.X, err = scaler.FitTransform(split.Train.X); err != nil {
		return Split{}, nil, err
	}
	if split.Test.X, err = scaler.Transform(split.Test.X); err != nil {
		return Split{}, nil, err
	}
	return split, scaler, nil
}
