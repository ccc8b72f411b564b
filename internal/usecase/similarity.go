package usecase

import "math"

// Similarity computes the normalized similarity of two document vectors.
// Raw cosine similarity lives in [-1,1]; (cos+1)/2 maps it into the [0,1]
// range the API promises. A zero-magnitude or mismatched vector yields 0
// instead of a division by zero.
func Similarity(a, b []float64) float64 {
	cos, ok := cosine(a, b)
	if !ok {
		return 0
	}
	score := (cos + 1) / 2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// cosine returns the cosine of the angle between a and b. ok is false when
// the value is undefined: empty or differently sized vectors, or a vector
// with zero magnitude.
func cosine(a, b []float64) (value float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
