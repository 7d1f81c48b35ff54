package dataset

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/montanaflynn/stats"
)

var (
	// ErrScalerFitted is returned when Fit is called on a fitted scaler.
	ErrScalerFitted = errors.New("scaler is already fitted")
	// ErrScalerNotFitted is returned when Transform is called before Fit.
	ErrScalerNotFitted = errors.New("scaler is not fitted")
	// ErrEmpty is returned when there are no events to split or fit on.
	ErrEmpty = errors.New("no events")
)

// StandardScaler shifts each column to zero mean and scales it to unit
// population variance. Columns with zero variance are only shifted.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fitted reports whether the scaler holds statistics.
func (s *StandardScaler) Fitted() bool {
	return s.Mean != nil
}

// Fit computes per-column statistics from the rows of x. A scaler is fitted
// exactly once.
func (s *StandardScaler) Fit(x [][]float64) error {
	if s.Fitted() {
		return ErrScalerFitted
	}
	if len(x) == 0 {
		return ErrEmpty
	}

	cols := len(x[0])
	mean := make([]float64, cols)
	scale := make([]float64, cols)
	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i, row := range x {
			if len(row) != cols {
				return errors.Schema(nil, "row %d has %d values, expected %d", i, len(row), cols)
			}
			col[i] = row[j]
		}
		m, err := stats.Mean(col)
		if err != nil {
			return errors.Wrapf(err, "mean of column %d", j)
		}
		sd, err := stats.StandardDeviationPopulation(col)
		if err != nil {
			return errors.Wrapf(err, "standard deviation of column %d", j)
		}
		if sd == 0 {
			sd = 1
		}
		mean[j], scale[j] = m, sd
	}
	s.Mean, s.Scale = mean, scale
	return nil
}

// Transform returns a scaled copy of x.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, ErrScalerNotFitted
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Mean) {
			return nil, errors.Schema(nil, "row %d has %d values, scaler was fitted on %d", i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler on x and returns x scaled.
func (s *StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}
