// Package tensor provides the core tensor types for flint: the scalar
// type registry, contiguous storage, fixed-rank tensors and the lazy
// expression engine that defers element-wise computation until assignment.
package tensor

import (
	"github.com/x448/float16"

	"github.com/flint-ml/flint/internal/errdefs"
)

// Scalar is the constraint satisfied by element types that tensors can be
// instantiated with. Float16 values are stored through the conversion
// helpers below rather than as a native Go type.
type Scalar interface {
	~uint8 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// DataType is the runtime tag for a supported element kind.
type DataType int

// Supported element kinds.
const (
	Uint8 DataType = iota
	Int8
	Int16
	Int32
	Int64
	Float16
	Float32
	Float64
	Bool
)

// Size returns the byte size of the data type. Panics on an unknown tag;
// use ElementSize for a checked lookup.
func (dt DataType) Size() int {
	n, err := ElementSize(dt)
	if err != nil {
		panic(err)
	}
	return n
}

// ElementSize returns the byte size of the data type, or a TypeError for
// an unknown tag.
func ElementSize(dt DataType) (int, error) {
	switch dt {
	case Uint8, Int8, Bool:
		return 1, nil
	case Int16, Float16:
		return 2, nil
	case Int32, Float32:
		return 4, nil
	case Int64, Float64:
		return 8, nil
	default:
		return 0, errdefs.Typef("unknown dtype tag %d", int(dt))
	}
}

// Name returns the canonical name of the data type, or a TypeError for an
// unknown tag.
func Name(dt DataType) (string, error) {
	switch dt {
	case Uint8:
		return "uint8", nil
	case Int8:
		return "int8", nil
	case Int16:
		return "int16", nil
	case Int32:
		return "int32", nil
	case Int64:
		return "int64", nil
	case Float16:
		return "float16", nil
	case Float32:
		return "float32", nil
	case Float64:
		return "float64", nil
	case Bool:
		return "bool", nil
	default:
		return "", errdefs.Typef("unknown dtype tag %d", int(dt))
	}
}

// String implements fmt.Stringer. Unknown tags render as "invalid".
func (dt DataType) String() string {
	name, err := Name(dt)
	if err != nil {
		return "invalid"
	}
	return name
}

// IsFloatingPoint reports whether the data type is a floating point kind.
func IsFloatingPoint(dt DataType) bool {
	return dt == Float16 || dt == Float32 || dt == Float64
}

// IsIntegral reports whether the data type is an integer kind.
func IsIntegral(dt DataType) bool {
	switch dt {
	case Uint8, Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// Promote returns the common data type for a mixed-type binary operation:
// equal types stay put, any floating point operand widens the result to
// Float64, any Int64 operand yields Int64, and everything else meets at
// Int32.
func Promote(a, b DataType) DataType {
	if a == b {
		return a
	}
	if IsFloatingPoint(a) || IsFloatingPoint(b) {
		return Float64
	}
	if a == Int64 || b == Int64 {
		return Int64
	}
	return Int32
}

// Of returns the DataType tag for the Go element type T.
func Of[T Scalar]() DataType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported scalar type")
	}
}

// EncodeFloat16 converts float32 values to IEEE 754 half-precision bits
// for Float16 storage.
func EncodeFloat16(src []float32) []uint16 {
	dst := make([]uint16, len(src))
	for i, v := range src {
		dst[i] = uint16(float16.Fromfloat32(v))
	}
	return dst
}

// DecodeFloat16 converts IEEE 754 half-precision bits back to float32.
func DecodeFloat16(src []uint16) []float32 {
	dst := make([]float32, len(src))
	for i, bits := range src {
		dst[i] = float16.Float16(bits).Float32()
	}
	return dst
}
