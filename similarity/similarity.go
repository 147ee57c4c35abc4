// Package similarity provides the similarity metric used for feature
// vector comparison.
//
// The metric is deliberately coarse: gesture feature vectors are short
// (a handful of dimensions) and noisy, so the mean absolute difference
// is both cheap and adequate. There is no SIMD path; a five-element
// loop does not earn one.
package similarity

import "math"

// Func is a function type for similarity calculation.
//
// Implementations must return a score in [0,1] and must treat vectors
// of unequal length as having similarity 0 rather than erroring.
type Func func(a, b []float32) float32

// MeanAbsDiff returns max(0, 1 - mean(|a_i - b_i|)) for equal-length
// vectors.
//
// Vectors of unequal length are never compared element-wise; their
// similarity is defined as 0. Empty vectors carry no observations and
// also score 0. The result is symmetric and bounded in [0,1], with
// MeanAbsDiff(a, a) == 1 for any non-empty a.
func MeanAbsDiff(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}

	s := 1 - sum/float64(len(a))
	if s < 0 {
		return 0
	}
	return float32(s)
}
