package dataset

import (
	"math"
	"testing"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/assemble"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-go/events"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func features(t *testing.T, n int) *events.Table {
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	label := make([]float64, n)
	weight := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = float64(i)
		x2[i] = 10 + 3*float64(i%7)
		if i%2 == 0 {
			label[i] = 1
		}
		weight[i] = 1 + float64(i%3)
	}
	tbl, err := events.FromColumns(
		[]string{"Q2V1", "Q2V2", assemble.LabelColumn, assemble.WeightColumn},
		[][]float64{x1, x2, label, weight})
	require.NoError(t, err)
	return tbl
}

func column(x [][]float64, j int) []float64 {
	col := make([]float64, len(x))
	for i, row := range x {
		col[i] = row[j]
	}
	return col
}

func TestSplitSizesAndSeed(t *testing.T) {
	tbl := features(t, 101)
	inputs := []string{"Q2V1", "Q2V2"}

	a, _, err := FinalFormatting(tbl, inputs, DefaultTestFraction, 7)
	require.NoError(t, err)
	assert.Equal(t, 21, a.Test.Len())
	assert.Equal(t, 80, a.Train.Len())

	b, _, err := FinalFormatting(tbl, inputs, DefaultTestFraction, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, _, err := FinalFormatting(tbl, inputs, DefaultTestFraction, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a.Test.Y, c.Test.Y)
}

func TestSplitKeepsRowsTogether(t *testing.T) {
	p, err := FromTable(features(t, 50), []string{"Q2V1", "Q2V2"})
	require.NoError(t, err)
	split, err := TrainTestSplit(p, 0.2, 7)
	require.NoError(t, err)

	seen := make(map[float64]bool)
	for _, part := range []Partition{split.Train, split.Test} {
		for i, row := range part.X {
			k := int(row[0])
			assert.False(t, seen[row[0]])
			seen[row[0]] = true
			assert.Equal(t, p.Y[k], part.Y[i])
			assert.Equal(t, p.W[k], part.W[i])
		}
	}
	assert.Len(t, seen, 50)
}

func TestScalerUsesTrainStatistics(t *testing.T) {
	split, scaler, err := FinalFormatting(features(t, 200), []string{"Q2V1", "Q2V2"}, DefaultTestFraction, 7)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		col := column(split.Train.X, j)
		mean, err := stats.Mean(col)
		require.NoError(t, err)
		sd, err := stats.StandardDeviationPopulation(col)
		require.NoError(t, err)
		assert.InDelta(t, 0, mean, 1e-9)
		assert.InDelta(t, 1, sd, 1e-9)
	}

	// test rows are scaled with the training statistics
	raw, err := FromTable(features(t, 200), []string{"Q2V1", "Q2V2"})
	require.NoError(t, err)
	row := split.Test.X[0]
	orig := raw.X[int(math.Round(row[0]*scaler.Scale[0]+scaler.Mean[0]))]
	assert.InDelta(t, (orig[1]-scaler.Mean[1])/scaler.Scale[1], row[1], 1e-9)
}

func TestScalerLifecycle(t *testing.T) {
	s := &StandardScaler{}
	_, err := s.Transform([][]float64{{1}})
	assert.Equal(t, ErrScalerNotFitted, err)

	out, err := s.FitTransform([][]float64{{1, 5}, {3, 5}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-1, 0}, {1, 0}}, out)
	assert.Equal(t, []float64{1, 1}, s.Scale)

	assert.Equal(t, ErrScalerFitted, s.Fit([][]float64{{0, 0}}))
	_, err = s.Transform([][]float64{{1}})
	assert.True(t, errors.IsSchema(err))
}

func TestSplitRejectsBadInput(t *testing.T) {
	p, err := FromTable(features(t, 10), []string{"Q2V1"})
	require.NoError(t, err)

	_, err = TrainTestSplit(p, 1.5, 7)
	assert.True(t, errors.IsConfig(err))

	_, err = TrainTestSplit(Partition{}, 0.2, 7)
	assert.Equal(t, ErrEmpty, err)

	_, err = TrainTestSplit(Partition{X: [][]float64{{1}}, Y: []float64{1}, W: []float64{1}}, 0.2, 7)
	assert.Error(t, err)
	assert.Equal(t, ErrEmpty, (&StandardScaler{}).Fit(nil))

	_, err = FromTable(features(t, 10), []string{"Dbkg_VBF"})
	assert.True(t, errors.IsSchema(err))
}
