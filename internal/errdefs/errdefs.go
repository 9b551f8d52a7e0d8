// Package errdefs defines the error kinds surfaced by the flint core.
// Callers distinguish failures programmatically with errors.As:
//
//	var shapeErr *errdefs.ShapeError
//	if errors.As(err, &shapeErr) { ... }
package errdefs

import "fmt"

// DeviceError reports invalid device construction, allocation failure,
// native copy failure or a failed capability query.
type DeviceError struct {
	Msg string
	Err error // underlying native status, may be nil
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Devicef formats a new DeviceError.
func Devicef(format string, args ...any) *DeviceError {
	return &DeviceError{Msg: fmt.Sprintf(format, args...)}
}

// DeviceWrap attaches an underlying native error to a DeviceError.
func DeviceWrap(err error, format string, args ...any) *DeviceError {
	return &DeviceError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// ShapeError reports operand size or shape mismatches: binary expression
// construction, assignment from an expression, matmul inner dimensions.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string { return e.Msg }

// Shapef formats a new ShapeError.
func Shapef(format string, args ...any) *ShapeError {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}

// IndexError reports out-of-bounds checked element access.
type IndexError struct {
	Msg string
}

func (e *IndexError) Error() string { return e.Msg }

// Indexf formats a new IndexError.
func Indexf(format string, args ...any) *IndexError {
	return &IndexError{Msg: fmt.Sprintf(format, args...)}
}

// TypeError reports an invalid or unknown scalar type tag.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

// Typef formats a new TypeError.
func Typef(format string, args ...any) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}

// MemoryError reports host allocator exhaustion, as opposed to
// device-specific allocation failures which are DeviceErrors.
type MemoryError struct {
	Msg string
}

func (e *MemoryError) Error() string { return e.Msg }

// Memoryf formats a new MemoryError.
func Memoryf(format string, args ...any) *MemoryError {
	return &MemoryError{Msg: fmt.Sprintf(format, args...)}
}
