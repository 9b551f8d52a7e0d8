//go:build !webgpu

// Package webgpu implements the flint accelerator runtime on top of
// WebGPU. This file is the stub compiled without the webgpu build tag:
// accelerator support is reported as absent and New fails unconditionally.
package webgpu

import (
	"github.com/flint-ml/flint/internal/device"
	"github.com/flint-ml/flint/internal/errdefs"
)

// Verify that Runtime implements device.Runtime.
var _ device.Runtime = (*Runtime)(nil)

// Runtime is the stub accelerator runtime. Every operation fails with a
// DeviceError; DeviceCount is zero.
type Runtime struct{}

// New always fails: the binary was built without the webgpu tag.
func New() (*Runtime, error) {
	return nil, errdefs.Devicef("webgpu support not compiled in (build with -tags webgpu)")
}

// IsAvailable reports false without touching any native library.
func IsAvailable() bool { return false }

// DeviceCount returns 0.
func (r *Runtime) DeviceCount() int { return 0 }

// Alloc fails unconditionally.
func (r *Runtime) Alloc(dev device.Device, size int) (device.Ptr, error) {
	return nil, errdefs.Devicef("webgpu support not compiled in")
}

// Free fails unconditionally.
func (r *Runtime) Free(dev device.Device, ptr device.Ptr) error {
	return errdefs.Devicef("webgpu support not compiled in")
}

// Write fails unconditionally.
func (r *Runtime) Write(dev device.Device, dst device.Ptr, src []byte) error {
	return errdefs.Devicef("webgpu support not compiled in")
}

// Read fails unconditionally.
func (r *Runtime) Read(dev device.Device, dst []byte, src device.Ptr) error {
	return errdefs.Devicef("webgpu support not compiled in")
}

// Info fails unconditionally.
func (r *Runtime) Info(dev device.Device) (device.Info, error) {
	return device.Info{}, errdefs.Devicef("webgpu support not compiled in")
}

// Release is a no-op on the stub.
func (r *Runtime) Release() {}
