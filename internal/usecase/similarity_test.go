package usecase

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		v := []float64{0.2, -0.5, 0.8, 0.1}
		if got := Similarity(v, v); math.Abs(got-1) > tolerance {
			t.Errorf("Similarity(v, v) = %v, want 1", got)
		}
	})

	t.Run("opposite vectors score 0", func(t *testing.T) {
		a := []float64{1, 2, 3}
		b := []float64{-1, -2, -3}
		if got := Similarity(a, b); math.Abs(got) > tolerance {
			t.Errorf("Similarity() = %v, want 0", got)
		}
	})

	t.Run("orthogonal vectors score 0.5", func(t *testing.T) {
		a := []float64{1, 0}
		b := []float64{0, 1}
		if got := Similarity(a, b); math.Abs(got-0.5) > tolerance {
			t.Errorf("Similarity() = %v, want 0.5", got)
		}
	})

	t.Run("is symmetric", func(t *testing.T) {
		a := []float64{0.3, 0.1, -0.7, 0.2}
		b := []float64{-0.2, 0.9, 0.4, 0.5}
		if math.Abs(Similarity(a, b)-Similarity(b, a)) > tolerance {
			t.Errorf("Similarity(a,b) = %v, Similarity(b,a) = %v, want equal",
				Similarity(a, b), Similarity(b, a))
		}
	})

	t.Run("stays within the closed unit interval", func(t *testing.T) {
		vectors := [][]float64{
			{1, 1, 1},
			{-3, 2, -1},
			{0.0001, 0, 0},
			{100, -200, 300},
		}
		for _, a := range vectors {
			for _, b := range vectors {
				got := Similarity(a, b)
				if got < 0 || got > 1 {
					t.Errorf("Similarity(%v, %v) = %v, want within [0,1]", a, b, got)
				}
			}
		}
	})

	t.Run("zero-magnitude vector scores 0", func(t *testing.T) {
		zero := []float64{0, 0, 0}
		v := []float64{1, 2, 3}
		if got := Similarity(zero, v); got != 0 {
			t.Errorf("Similarity(zero, v) = %v, want 0", got)
		}
		if got := Similarity(v, zero); got != 0 {
			t.Errorf("Similarity(v, zero) = %v, want 0", got)
		}
	})

	t.Run("mismatched or empty vectors score 0", func(t *testing.T) {
		if got := Similarity([]float64{1, 2}, []float64{1, 2, 3}); got != 0 {
			t.Errorf("Similarity(mismatched) = %v, want 0", got)
		}
		if got := Similarity(nil, nil); got != 0 {
			t.Errorf("Similarity(nil, nil) = %v, want 0", got)
		}
	})
}
