package tensor

import (
	"math"

	"github.com/flint-ml/flint/internal/errdefs"
)

// Sum returns the sum of all elements.
func Sum[T Scalar](t *Tensor[T]) T {
	var sum T
	for _, v := range t.Data() {
		sum += v
	}
	return sum
}

// Mean returns the arithmetic mean of all elements as float64.
func Mean[T Scalar](t *Tensor[T]) float64 {
	if t.Size() == 0 {
		return 0
	}
	return float64(Sum(t)) / float64(t.Size())
}

// Norm returns the Euclidean (L2) norm of all elements as float64.
func Norm[T Scalar](t *Tensor[T]) float64 {
	var sum float64
	for _, v := range t.Data() {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// Distance returns the Euclidean distance between two equally sized
// tensors as float64.
func Distance[T Scalar](lhs, rhs *Tensor[T]) (float64, error) {
	if lhs.Size() != rhs.Size() {
		return 0, errdefs.Shapef("distance size mismatch: %d vs %d", lhs.Size(), rhs.Size())
	}
	a, b := lhs.Data(), rhs.Data()
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
