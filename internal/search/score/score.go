// Package score rescales raw backend scores onto a common 0-100 range.
package score

// epsilon guards against division by zero when every raw score is zero or
// the batch is empty.
const epsilon = 0.0001

// Max returns the largest score in the batch, floored at epsilon.
func Max(scores []float64) float64 {
	m := epsilon
	for _, s := range scores {
		if s > m {
			m = s
		}
	}
	return m
}

// Normalize maps each score to score/max*100. The top score of a non-empty
// batch maps to exactly 100; the transform is linear and order-preserving.
func Normalize(scores []float64) []float64 {
	m := Max(scores)
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = s / m * 100
	}
	return out
}
