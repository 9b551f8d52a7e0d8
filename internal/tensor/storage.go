package tensor

import "github.com/flint-ml/flint/internal/errdefs"

// Storage is an owning, resizable, contiguous buffer of elements. It has
// no device affinity: it represents host-resident backing memory.
// Device-resident buffers go through the device memory manager instead.
//
// Storage is not safe for concurrent mutation without external
// synchronization.
type Storage[T Scalar] struct {
	data []T
}

// NewStorage creates a storage of n zero-valued elements.
func NewStorage[T Scalar](n int) *Storage[T] {
	return &Storage[T]{data: make([]T, n)}
}

// NewStorageFilled creates a storage of n elements, each set to fill.
func NewStorageFilled[T Scalar](n int, fill T) *Storage[T] {
	s := &Storage[T]{data: make([]T, n)}
	for i := range s.data {
		s.data[i] = fill
	}
	return s
}

// StorageFrom creates a storage holding a copy of src.
func StorageFrom[T Scalar](src []T) *Storage[T] {
	s := &Storage[T]{data: make([]T, len(src))}
	copy(s.data, src)
	return s
}

// Len returns the number of elements.
func (s *Storage[T]) Len() int { return len(s.data) }

// Cap returns the reserved capacity in elements.
func (s *Storage[T]) Cap() int { return cap(s.data) }

// Data returns the raw element slice for unchecked access and interop
// with low-level copy routines.
//
// WARNING: the slice is invalidated by Resize and Reserve; do not cache
// it across calls that may reallocate.
func (s *Storage[T]) Data() []T { return s.data }

// At returns the element at index i, or an IndexError when i is out of
// bounds.
func (s *Storage[T]) At(i int) (T, error) {
	if i < 0 || i >= len(s.data) {
		var zero T
		return zero, errdefs.Indexf("storage index %d out of range [0, %d)", i, len(s.data))
	}
	return s.data[i], nil
}

// SetAt stores v at index i, or returns an IndexError when i is out of
// bounds.
func (s *Storage[T]) SetAt(i int, v T) error {
	if i < 0 || i >= len(s.data) {
		return errdefs.Indexf("storage index %d out of range [0, %d)", i, len(s.data))
	}
	s.data[i] = v
	return nil
}

// Resize grows or shrinks the storage to n elements. Growth zero-fills
// the new tail and may reallocate, invalidating raw slices taken earlier.
func (s *Storage[T]) Resize(n int) {
	switch {
	case n <= len(s.data):
		s.data = s.data[:n]
	case n <= cap(s.data):
		tail := s.data[len(s.data):n]
		for i := range tail {
			var zero T
			tail[i] = zero
		}
		s.data = s.data[:n]
	default:
		grown := make([]T, n)
		copy(grown, s.data)
		s.data = grown
	}
}

// Reserve ensures capacity for at least n elements without changing the
// length.
func (s *Storage[T]) Reserve(n int) {
	if n <= cap(s.data) {
		return
	}
	grown := make([]T, len(s.data), n)
	copy(grown, s.data)
	s.data = grown
}

// Clear removes all elements, keeping capacity.
func (s *Storage[T]) Clear() {
	s.data = s.data[:0]
}

// Swap exchanges the contents of two storages in O(1).
func (s *Storage[T]) Swap(other *Storage[T]) {
	s.data, other.data = other.data, s.data
}
