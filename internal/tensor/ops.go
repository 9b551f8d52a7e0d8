package tensor

import (
	"github.com/flint-ml/flint/internal/errdefs"
	"github.com/flint-ml/flint/internal/parallel"
)

// matmulBlock is the tile edge of the blocked matrix multiply, sized so
// three tiles of float64 fit comfortably in L1.
const matmulBlock = 32

// MatMul computes the dense matrix product of two 2-D tensors eagerly:
// result[i][j] = Σ_k lhs[i][k] * rhs[k][j]. Unlike the element-wise
// expression nodes it is not lazy. The computation is tiled in blocks of
// 32 along all three dimensions; the (row-block, column-block) pairs of
// the output fan out across worker goroutines and the region joins before
// MatMul returns.
func MatMul[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) {
	if lhs.Rank() != 2 || rhs.Rank() != 2 {
		return nil, errdefs.Shapef("matmul requires 2D tensors, got %dD and %dD", lhs.Rank(), rhs.Rank())
	}
	m, k := lhs.shape[0], lhs.shape[1]
	if rhs.shape[0] != k {
		return nil, errdefs.Shapef("matmul dimension mismatch: %v x %v", lhs.shape, rhs.shape)
	}
	n := rhs.shape[1]

	out, err := New[T](Shape{m, n})
	if err != nil {
		return nil, err
	}

	a, b, c := lhs.Data(), rhs.Data(), out.Data()
	iBlocks := (m + matmulBlock - 1) / matmulBlock
	jBlocks := (n + matmulBlock - 1) / matmulBlock

	// Each output tile is owned by exactly one iteration, so the fan-out
	// needs no synchronization beyond the final join.
	parallel.For(iBlocks*jBlocks, func(tile int) {
		i0 := (tile / jBlocks) * matmulBlock
		j0 := (tile % jBlocks) * matmulBlock
		iEnd := min(i0+matmulBlock, m)
		jEnd := min(j0+matmulBlock, n)

		for k0 := 0; k0 < k; k0 += matmulBlock {
			kEnd := min(k0+matmulBlock, k)
			for i := i0; i < iEnd; i++ {
				row := a[i*k : i*k+k]
				for j := j0; j < jEnd; j++ {
					var sum T
					kk := k0
					// Accumulate in groups of 8 to help the compiler
					// keep the partial products in registers.
					for ; kk+8 <= kEnd; kk += 8 {
						sum += row[kk]*b[kk*n+j] +
							row[kk+1]*b[(kk+1)*n+j] +
							row[kk+2]*b[(kk+2)*n+j] +
							row[kk+3]*b[(kk+3)*n+j] +
							row[kk+4]*b[(kk+4)*n+j] +
							row[kk+5]*b[(kk+5)*n+j] +
							row[kk+6]*b[(kk+6)*n+j] +
							row[kk+7]*b[(kk+7)*n+j]
					}
					for ; kk < kEnd; kk++ {
						sum += row[kk] * b[kk*n+j]
					}
					c[i*n+j] += sum
				}
			}
		}
	}, parallel.DefaultConfig())

	return out, nil
}

// Transpose returns the transpose of a 2-D tensor.
func Transpose[T Scalar](t *Tensor[T]) (*Tensor[T], error) {
	if t.Rank() != 2 {
		return nil, errdefs.Shapef("transpose requires a 2D tensor, got %dD", t.Rank())
	}
	rows, cols := t.shape[0], t.shape[1]
	out, err := New[T](Shape{cols, rows})
	if err != nil {
		return nil, err
	}
	src, dst := t.Data(), out.Data()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
	return out, nil
}

// Dot computes the inner product of two equally sized tensors, flattened.
func Dot[T Scalar](lhs, rhs *Tensor[T]) (T, error) {
	var sum T
	if lhs.Size() != rhs.Size() {
		return sum, errdefs.Shapef("dot size mismatch: %d vs %d", lhs.Size(), rhs.Size())
	}
	a, b := lhs.Data(), rhs.Data()
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Outer computes the outer product of two 1-D tensors: a (len(a), len(b))
// matrix with out[i][j] = a[i] * b[j].
func Outer[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) {
	if lhs.Rank() != 1 || rhs.Rank() != 1 {
		return nil, errdefs.Shapef("outer requires 1D tensors, got %dD and %dD", lhs.Rank(), rhs.Rank())
	}
	m, n := lhs.Size(), rhs.Size()
	out, err := New[T](Shape{m, n})
	if err != nil {
		return nil, err
	}
	a, b, c := lhs.Data(), rhs.Data(), out.Data()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			c[i*n+j] = a[i] * b[j]
		}
	}
	return out, nil
}

// Cross computes the cross product of two 3-element vectors.
func Cross[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) {
	if lhs.Rank() != 1 || rhs.Rank() != 1 || lhs.Size() != 3 || rhs.Size() != 3 {
		return nil, errdefs.Shapef("cross requires 3-element vectors, got sizes %d and %d", lhs.Size(), rhs.Size())
	}
	a, b := lhs.Data(), rhs.Data()
	return FromSlice([]T{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}, Shape{3})
}

// Kron computes the Kronecker product of two 2-D tensors: a
// (m*p, n*q) matrix where each lhs element scales a full rhs block.
func Kron[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) {
	if lhs.Rank() != 2 || rhs.Rank() != 2 {
		return nil, errdefs.Shapef("kron requires 2D tensors, got %dD and %dD", lhs.Rank(), rhs.Rank())
	}
	m, n := lhs.shape[0], lhs.shape[1]
	p, q := rhs.shape[0], rhs.shape[1]
	out, err := New[T](Shape{m * p, n * q})
	if err != nil {
		return nil, err
	}
	a, b, c := lhs.Data(), rhs.Data(), out.Data()
	cols := n * q
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			scale := a[i*n+j]
			for r := 0; r < p; r++ {
				for s := 0; s < q; s++ {
					c[(i*p+r)*cols+j*q+s] = scale * b[r*q+s]
				}
			}
		}
	}
	return out, nil
}
