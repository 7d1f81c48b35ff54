package network

import "math"

// clipEpsilon keeps probabilities away from 0 and 1 inside the logarithms.
const clipEpsilon = 1e-7

// BinaryCrossEntropy returns the weighted mean binary cross-entropy of
// probabilities p against 0/1 labels y: sum(w*loss)/n. A nil w weighs every
// event by 1.
func BinaryCrossEntropy(y, p, w []float64) float64 {
	if len(p) == 0 {
		return 0
	}
	var sum float64
	for i := range p {
		q := math.Min(math.Max(p[i], clipEpsilon), 1-clipEpsilon)
		l := -(y[i]*math.Log(q) + (1-y[i])*math.Log(1-q))
		if w != nil {
			l *= w[i]
		}
		sum += l
	}
	return sum / float64(len(p))
}
