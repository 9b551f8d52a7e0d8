package tensor

import "github.com/flint-ml/flint/internal/errdefs"

// Expr is the capability contract of the expression engine: anything that
// reports a size and yields an element per index can participate in
// expression composition. Tensors satisfy it, and so do the Binary and
// Unary nodes below, which is what makes expression trees compose.
//
// Expressions are lazy: nothing is computed until the expression is
// materialized by Tensor.Assign or Eval.
type Expr[T Scalar] interface {
	// Size returns the number of elements the expression produces.
	Size() int
	// At computes the element at flat index i. Nodes recompute on every
	// call; there is no memoization.
	At(i int) T
}

// Binary is a lazy element-wise combination of two equally sized operand
// expressions. It holds its operands and applies op freshly on each
// indexed access.
type Binary[T Scalar] struct {
	op  func(a, b T) T
	lhs Expr[T]
	rhs Expr[T]
}

// NewBinary builds a binary node, failing fast with a ShapeError when the
// operand sizes differ.
func NewBinary[T Scalar](op func(a, b T) T, lhs, rhs Expr[T]) (*Binary[T], error) {
	if lhs.Size() != rhs.Size() {
		return nil, errdefs.Shapef("binary operation size mismatch: %d vs %d", lhs.Size(), rhs.Size())
	}
	return &Binary[T]{op: op, lhs: lhs, rhs: rhs}, nil
}

// Size returns the common operand size.
func (e *Binary[T]) Size() int { return e.lhs.Size() }

// At applies the operator to the operands' elements at i.
func (e *Binary[T]) At(i int) T { return e.op(e.lhs.At(i), e.rhs.At(i)) }

// Unary is a lazy element-wise transformation of one operand expression.
type Unary[T Scalar] struct {
	op      func(v T) T
	operand Expr[T]
}

// NewUnary builds a unary node over the operand.
func NewUnary[T Scalar](op func(v T) T, operand Expr[T]) *Unary[T] {
	return &Unary[T]{op: op, operand: operand}
}

// Size returns the operand size.
func (e *Unary[T]) Size() int { return e.operand.Size() }

// At applies the operator to the operand's element at i.
func (e *Unary[T]) At(i int) T { return e.op(e.operand.At(i)) }

// Add returns the lazy element-wise sum of two expressions.
func Add[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) {
	return NewBinary(func(a, b T) T { return a + b }, lhs, rhs)
}

// Sub returns the lazy element-wise difference of two expressions.
func Sub[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) {
	return NewBinary(func(a, b T) T { return a - b }, lhs, rhs)
}

// Mul returns the lazy element-wise product of two expressions.
func Mul[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) {
	return NewBinary(func(a, b T) T { return a * b }, lhs, rhs)
}

// Div returns the lazy element-wise quotient of two expressions.
func Div[T Scalar](lhs, rhs Expr[T]) (*Binary[T], error) {
	return NewBinary(func(a, b T) T { return a / b }, lhs, rhs)
}

// Neg returns the lazy element-wise negation of an expression.
func Neg[T Scalar](operand Expr[T]) *Unary[T] {
	return NewUnary(func(v T) T { return -v }, operand)
}

// Abs returns the lazy element-wise absolute value of an expression.
func Abs[T Scalar](operand Expr[T]) *Unary[T] {
	return NewUnary(func(v T) T {
		if v < 0 {
			return -v
		}
		return v
	}, operand)
}

// Scale returns the lazy element-wise product of an expression and a
// scalar factor.
func Scale[T Scalar](operand Expr[T], factor T) *Unary[T] {
	return NewUnary(func(v T) T { return v * factor }, operand)
}
