// Package device implements the execution-context identity, the pooled
// device memory manager and the device properties cache for flint.
//
// A Device is a small comparable value (kind + index) used as the key into
// per-device state. All raw memory for device-resident tensors flows
// through a Manager; capability queries go through a Properties cache.
package device

import (
	"strconv"

	"github.com/flint-ml/flint/internal/errdefs"
)

// Kind distinguishes host from accelerator execution contexts.
type Kind int

// Supported device kinds.
const (
	KindCPU Kind = iota
	KindAccelerator
)

// hostIndex is the sentinel index carried by every CPU device.
const hostIndex = -1

// Device identifies an execution and memory context. It is comparable and
// usable as a map key; equality is structural over (kind, index).
type Device struct {
	kind  Kind
	index int
}

// CPU returns the host device. It never fails.
func CPU() Device {
	return Device{kind: KindCPU, index: hostIndex}
}

// Accelerator returns the accelerator device with the given index,
// validated against the runtime rt. The index must be non-negative and
// below rt.DeviceCount(). A nil runtime (accelerator support not compiled
// in or not initialized) fails unconditionally.
func Accelerator(rt Runtime, index int) (Device, error) {
	if index < 0 {
		return Device{}, errdefs.Devicef("accelerator device index must be non-negative, got %d", index)
	}
	if rt == nil {
		return Device{}, errdefs.Devicef("accelerator support not available")
	}
	if n := rt.DeviceCount(); index >= n {
		return Device{}, errdefs.Devicef("invalid accelerator device index %d: %d device(s) detected", index, n)
	}
	return Device{kind: KindAccelerator, index: index}, nil
}

// Kind returns the device kind.
func (d Device) Kind() Kind { return d.kind }

// Index returns the device index: -1 for the host, >= 0 for accelerators.
func (d Device) Index() int { return d.index }

// IsCPU reports whether the device is the host.
func (d Device) IsCPU() bool { return d.kind == KindCPU }

// IsAccelerator reports whether the device is an accelerator.
func (d Device) IsAccelerator() bool { return d.kind == KindAccelerator }

// String returns "cpu" for the host and "accelerator:<index>" otherwise.
func (d Device) String() string {
	if d.IsCPU() {
		return "cpu"
	}
	return "accelerator:" + strconv.Itoa(d.index)
}
