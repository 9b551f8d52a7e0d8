// Copyright 2025 The Flint Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for flint tensors.
//
// The package re-exports the core types and operations:
//   - Tensor[T]: fixed-rank, dense, statically-typed N-dimensional array
//   - Expr[T]: the lazy expression capability contract
//   - Shape, DataType, Storage[T]: core definitions
//
// Example:
//
//	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	b, _ := tensor.FromSlice([]float32{2, 0, 1, 3}, tensor.Shape{2, 2})
//	sum, _ := tensor.Add[float32](a, b) // lazy, nothing computed yet
//	c, _ := tensor.Eval(tensor.Shape{2, 2}, sum)
package tensor

import (
	itensor "github.com/flint-ml/flint/internal/tensor"
)

// Scalar is the constraint satisfied by tensor element types.
type Scalar = itensor.Scalar

// DataType is the runtime tag for a supported element kind.
type DataType = itensor.DataType

// Supported element kinds.
const (
	Uint8   DataType = itensor.Uint8
	Int8    DataType = itensor.Int8
	Int16   DataType = itensor.Int16
	Int32   DataType = itensor.Int32
	Int64   DataType = itensor.Int64
	Float16 DataType = itensor.Float16
	Float32 DataType = itensor.Float32
	Float64 DataType = itensor.Float64
	Bool    DataType = itensor.Bool
)

// Shape is the tuple of per-dimension extents of a tensor.
type Shape = itensor.Shape

// Tensor is a fixed-rank view over a Storage.
type Tensor[T Scalar] = itensor.Tensor[T]

// Storage is an owning, contiguous, host-resident element buffer.
type Storage[T Scalar] = itensor.Storage[T]

// Expr is the lazy expression capability contract.
type Expr[T Scalar] = itensor.Expr[T]

// Binary is a lazy element-wise combination of two operands.
type Binary[T Scalar] = itensor.Binary[T]

// Unary is a lazy element-wise transformation of one operand.
type Unary[T Scalar] = itensor.Unary[T]

// New creates a zero-valued tensor of the given shape.
func New[T Scalar](shape Shape) (*Tensor[T], error) { return itensor.New[T](shape) }

// FromSlice creates a tensor of the given shape holding a copy of data.
func FromSlice[T Scalar](data []T, shape Shape) (*Tensor[T], error) {
	return itensor.FromSlice(data, shape)
}

// Eval materializes an expression into a fresh tensor of the given shape.
func Eval[T Scalar](shape Shape, e Expr[T]) (*Tensor[T], error) { return itensor.Eval(shape, e) }

// NewBinary builds a binary expression node; fails fast on a size mismatch.
func NewBinary[T Scalar](op func(a, b T) T, lhs, rhs Expr[T]) (*Binary[T], error) {
	return itensor.NewBinary(op, lhs, rhs)
}

// NewUnary builds a unary expression node.
func NewUnary[T Scalar](op func(v T) T, operand Expr[T]) *Unary[T] {
	return itensor.NewUnary(op, operand)
}

// Add returns the lazy element-wise sum of two expressions.
func Add[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) { return itensor.Add(lhs, rhs) }

// Sub returns the lazy element-wise difference of two expressions.
func Sub[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) { return itensor.Sub(lhs, rhs) }

// Mul returns the lazy element-wise product of two expressions.
func Mul[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) { return itensor.Mul(lhs, rhs) }

// Div returns the lazy element-wise quotient of two expressions.
func Div[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) { return itensor.Div(lhs, rhs) }

// Neg returns the lazy element-wise negation of an expression.
func Neg[T Scalar](operand Expr[T]) *Unary[T] { return itensor.Neg(operand) }

// Abs returns the lazy element-wise absolute value of an expression.
func Abs[T Scalar](operand Expr[T]) *Unary[T] { return itensor.Abs(operand) }

// Scale returns the lazy element-wise scaling of an expression.
func Scale[T Scalar](operand Expr[T], factor T) *Unary[T] { return itensor.Scale(operand, factor) }

// MatMul computes the dense matrix product of two 2-D tensors eagerly.
func MatMul[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) { return itensor.MatMul(lhs, rhs) }

// Transpose returns the transpose of a 2-D tensor.
func Transpose[T Scalar](t *Tensor[T]) (*Tensor[T], error) { return itensor.Transpose(t) }

// Dot computes the inner product of two equally sized tensors.
func Dot[T Scalar](lhs, rhs *Tensor[T]) (T, error) { return itensor.Dot(lhs, rhs) }

// Outer computes the outer product of two 1-D tensors.
func Outer[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) { return itensor.Outer(lhs, rhs) }

// Cross computes the cross product of two 3-element vectors.
func Cross[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) { return itensor.Cross(lhs, rhs) }

// Kron computes the Kronecker product of two 2-D tensors.
func Kron[T Scalar](lhs, rhs *Tensor[T]) (*Tensor[T], error) { return itensor.Kron(lhs, rhs) }

// Sum returns the sum of all elements.
func Sum[T Scalar](t *Tensor[T]) T { return itensor.Sum(t) }

// Mean returns the arithmetic mean of all elements as float64.
func Mean[T Scalar](t *Tensor[T]) float64 { return itensor.Mean(t) }

// Norm returns the Euclidean norm of all elements as float64.
func Norm[T Scalar](t *Tensor[T]) float64 { return itensor.Norm(t) }

// Distance returns the Euclidean distance between two tensors.
func Distance[T Scalar](lhs, rhs *Tensor[T]) (float64, error) { return itensor.Distance(lhs, rhs) }

// ElementSize returns the byte size of a data type tag.
func ElementSize(dt DataType) (int, error) { return itensor.ElementSize(dt) }

// Promote returns the common data type for a mixed-type binary operation.
func Promote(a, b DataType) DataType { return itensor.Promote(a, b) }

// Of returns the DataType tag for the Go element type T.
func Of[T Scalar]() DataType { return itensor.Of[T]() }

// EncodeFloat16 converts float32 values to half-precision bits.
func EncodeFloat16(src []float32) []uint16 { return itensor.EncodeFloat16(src) }

// DecodeFloat16 converts half-precision bits back to float32.
func DecodeFloat16(src []uint16) []float32 { return itensor.DecodeFloat16(src) }
