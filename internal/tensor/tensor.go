package tensor

import (
	"fmt"

	"github.com/flint-ml/flint/internal/errdefs"
)

// Tensor is a fixed-rank view over a Storage. The rank is set at
// construction and never changes; the storage always holds exactly
// shape.NumElements() elements.
//
// A Tensor owns its storage through shared ownership: Alias returns a
// second handle over the same buffer, so assignment through one handle is
// visible to all aliases. Use Clone when an independent buffer is needed.
type Tensor[T Scalar] struct {
	shape   Shape
	storage *Storage[T]
}

// Verify the expression capability contract.
var _ Expr[float32] = (*Tensor[float32])(nil)

// New creates a zero-valued tensor of the given shape. Fails with a
// ShapeError when a dimension is not positive.
func New[T Scalar](shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor[T]{
		shape:   shape.Clone(),
		storage: NewStorage[T](shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor of the given shape holding a copy of data.
func FromSlice[T Scalar](data []T, shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, errdefs.Shapef("shape %v requires %d elements, got %d", shape, shape.NumElements(), len(data))
	}
	return &Tensor[T]{
		shape:   shape.Clone(),
		storage: StorageFrom(data),
	}, nil
}

// Eval materializes an expression into a fresh tensor of the given shape.
// The expression's size must equal the shape's element count.
func Eval[T Scalar](shape Shape, e Expr[T]) (*Tensor[T], error) {
	t, err := New[T](shape)
	if err != nil {
		return nil, err
	}
	if err := t.Assign(e); err != nil {
		return nil, err
	}
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T]) Shape() Shape { return t.shape }

// Rank returns the number of dimensions, fixed at construction.
func (t *Tensor[T]) Rank() int { return t.shape.Rank() }

// Size returns the total number of elements. Part of the Expr contract.
func (t *Tensor[T]) Size() int { return t.storage.Len() }

// DType returns the runtime tag of the element type.
func (t *Tensor[T]) DType() DataType { return Of[T]() }

// At returns the element at flat index i. Unchecked; out-of-range panics.
// Part of the Expr contract.
func (t *Tensor[T]) At(i int) T { return t.storage.data[i] }

// Set stores v at flat index i. Unchecked; out-of-range panics.
func (t *Tensor[T]) Set(i int, v T) { t.storage.data[i] = v }

// Index returns the element at the given multi-dimensional indices.
// Panics on wrong arity or an out-of-bounds index.
func (t *Tensor[T]) Index(indices ...int) T {
	return t.storage.data[t.flatIndex(indices)]
}

// SetIndex stores v at the given multi-dimensional indices.
func (t *Tensor[T]) SetIndex(v T, indices ...int) {
	t.storage.data[t.flatIndex(indices)] = v
}

func (t *Tensor[T]) flatIndex(indices []int) int {
	if len(indices) != t.shape.Rank() {
		panic(fmt.Sprintf("expected %d indices, got %d", t.shape.Rank(), len(indices)))
	}
	offset := 0
	strides := t.shape.Strides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// Data returns the raw element slice backing the tensor.
//
// WARNING: modifications through the slice are visible to every alias of
// this tensor.
func (t *Tensor[T]) Data() []T { return t.storage.Data() }

// Storage returns the underlying storage.
func (t *Tensor[T]) Storage() *Storage[T] { return t.storage }

// Assign materializes an expression into the tensor's storage, writing
// elements in index order 0..Size()-1. Fails with a ShapeError when the
// expression size differs from the tensor size; the tensor's prior
// contents after a failed or interrupted assignment are unspecified.
func (t *Tensor[T]) Assign(e Expr[T]) error {
	if e.Size() != t.Size() {
		return errdefs.Shapef("expression size %d does not match tensor size %d", e.Size(), t.Size())
	}
	data := t.storage.data
	for i := range data {
		data[i] = e.At(i)
	}
	return nil
}

// Alias returns a second handle sharing this tensor's storage. Writes
// through either handle are visible to both.
func (t *Tensor[T]) Alias() *Tensor[T] {
	return &Tensor[T]{shape: t.shape.Clone(), storage: t.storage}
}

// Clone returns a deep copy with an independent buffer.
func (t *Tensor[T]) Clone() *Tensor[T] {
	return &Tensor[T]{
		shape:   t.shape.Clone(),
		storage: StorageFrom(t.storage.data),
	}
}

// String returns a short human-readable description.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v", t.DType(), t.shape)
}
