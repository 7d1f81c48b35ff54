package metrics

// BinaryAccuracy returns the (optionally weighted) fraction of events whose
// probability falls on the same side of 0.5 as their label.
func BinaryAccuracy(labels, probs, weights []float64) float64 {
	var hit, total float64
	for i, p := range probs {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		var pred float64
		if p > 0.5 {
			pred = 1
		}
		if pred == labels[i] {
			hit += w
		}
		total += w
	}
	if total == 0 {
		return 0
	}
	return hit / total
}
