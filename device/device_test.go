// Copyright 2025 The Flint Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package device_test

import (
	"bytes"
	"testing"

	"github.com/flint-ml/flint/device"
)

// TestMockRuntimeInterface verifies that MockRuntime implements Runtime.
func TestMockRuntimeInterface(_ *testing.T) {
	var _ device.Runtime = (*device.MockRuntime)(nil)
}

// TestPublicAPI exercises the re-exported allocation and copy surface.
func TestPublicAPI(t *testing.T) {
	rt := device.NewMockRuntime(1)
	m := device.NewManager(device.WithRuntime(rt))
	defer m.Close()

	cpu := device.CPU()
	if !cpu.IsCPU() || cpu.String() != "cpu" {
		t.Errorf("CPU() = %v", cpu)
	}

	acc, err := device.Accelerator(rt, 0)
	if err != nil {
		t.Fatalf("Accelerator failed: %v", err)
	}
	if acc.String() != "accelerator:0" {
		t.Errorf("accelerator String() = %q", acc.String())
	}

	src := []byte{1, 2, 3, 4}
	ptr, err := m.Allocate(len(src), acc)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if err := m.CopyToDevice(ptr, src, acc); err != nil {
		t.Fatalf("CopyToDevice failed: %v", err)
	}
	dst := make([]byte, len(src))
	if err := m.CopyToHost(dst, ptr, acc); err != nil {
		t.Fatalf("CopyToHost failed: %v", err)
	}
	if !bytes.Equal(src, dst) {
		t.Errorf("round trip = %v, want %v", dst, src)
	}

	if s := m.Stats(); s.BlocksInUse != 1 {
		t.Errorf("Stats().BlocksInUse = %d, want 1", s.BlocksInUse)
	}

	p := device.NewProperties(device.WithPropertiesRuntime(rt))
	info, err := p.Info(acc)
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Name == "" {
		t.Error("accelerator info has empty name")
	}
}

// TestGuardAPI exercises the re-exported allocation guard.
func TestGuardAPI(t *testing.T) {
	m := device.NewManager()
	g, err := device.NewGuard(m, 64, device.CPU())
	if err != nil {
		t.Fatalf("NewGuard failed: %v", err)
	}
	if g.Ptr() == nil || g.Size() != 64 {
		t.Errorf("guard ptr=%v size=%d", g.Ptr(), g.Size())
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if g.Ptr() != nil {
		t.Error("guard pointer must be nil after Close")
	}
}

// TestDefaults verifies that the package-level defaults are stable.
func TestDefaults(t *testing.T) {
	if device.DefaultManager() != device.DefaultManager() {
		t.Error("DefaultManager must return one instance")
	}
	if device.DefaultProperties() != device.DefaultProperties() {
		t.Error("DefaultProperties must return one instance")
	}
}
