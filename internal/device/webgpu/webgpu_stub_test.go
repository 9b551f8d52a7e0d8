//go:build !webgpu

package webgpu

import (
	"errors"
	"testing"

	"github.com/flint-ml/flint/internal/device"
	"github.com/flint-ml/flint/internal/errdefs"
)

func TestStubReportsUnavailable(t *testing.T) {
	if IsAvailable() {
		t.Fatal("IsAvailable() = true without the webgpu build tag")
	}
	_, err := New()
	if err == nil {
		t.Fatal("New() must fail without the webgpu build tag")
	}
	var devErr *errdefs.DeviceError
	if !errors.As(err, &devErr) {
		t.Errorf("error type = %T, want *errdefs.DeviceError", err)
	}
}

func TestStubOperationsFail(t *testing.T) {
	r := &Runtime{}
	if r.DeviceCount() != 0 {
		t.Errorf("DeviceCount() = %d, want 0", r.DeviceCount())
	}
	if _, err := r.Alloc(device.CPU(), 64); err == nil {
		t.Error("Alloc must fail on the stub")
	}
	if _, err := r.Info(device.CPU()); err == nil {
		t.Error("Info must fail on the stub")
	}
	r.Release()
}
