package bandit

import "math"

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// y = W * x
func matVecMul(W [][]float64, x []float64) []float64 {
	y := make([]float64, len(W))
	for i := range W {
		y[i] = dot(W[i], x)
	}
	return y
}

func relu(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			y[i] = v
		}
	}
	return y
}

// addScaled: dst := dst + s * src
func addScaled(dst, src []float64, s float64) {
	for i := range dst {
		dst[i] += s * src[i]
	}
}

func zerosLike(W [][]float64) [][]float64 {
	out := make([][]float64, len(W))
	for i := range W {
		out[i] = make([]float64, len(W[i]))
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
