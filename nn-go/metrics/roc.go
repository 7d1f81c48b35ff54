package metrics

import (
	"math"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Curve is a receiver operating characteristic curve. Points are ordered by
// non-decreasing FPR, starting at (0, 0) and ending at (1, 1). Thresholds[i]
// is the score cut that yields the i-th point.
type Curve struct {
	FPR        []float64
	TPR        []float64
	Thresholds []float64
}

// ROC computes the curve for scores against 0/1 labels. weights may be nil.
// Both classes must be present.
func ROC(labels, scores, weights []float64) (Curve, error) {
	if len(labels) != len(scores) {
		return Curve{}, errors.Errorf("%d labels for %d scores", len(labels), len(scores))
	}
	if weights != nil && len(weights) != len(scores) {
		return Curve{}, errors.Errorf("%d weights for %d scores", len(weights), len(scores))
	}

	y := append([]float64(nil), scores...)
	classes := make([]bool, len(labels))
	var pos, neg int
	for i, l := range labels {
		classes[i] = l > 0.5
		if classes[i] {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return Curve{}, errors.Errorf("ROC needs both classes, got %d positive and %d negative", pos, neg)
	}
	var w []float64
	if weights != nil {
		w = append([]float64(nil), weights...)
	}

	stat.SortWeightedLabeled(y, classes, w)
	tpr, fpr, thresh := stat.ROC(nil, y, classes, w)

	// orient from the strictest cut to the loosest
	if len(fpr) > 1 && fpr[0] > fpr[len(fpr)-1] {
		reverse(fpr)
		reverse(tpr)
		reverse(thresh)
	}
	return Curve{FPR: fpr, TPR: tpr, Thresholds: thresh}, nil
}

// AUC is the trapezoidal area under the curve.
func (c Curve) AUC() float64 {
	return Trapezoid(c.FPR, c.TPR)
}

// Trapezoid integrates y over x with the trapezoidal rule. x must be sorted
// in increasing order; fewer than two points give NaN.
func Trapezoid(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	return integrate.Trapezoidal(x, y)
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
