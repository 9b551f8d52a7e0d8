// Copyright 2025 The Flint Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device provides the public API for flint's execution contexts,
// the pooled device memory manager and the device properties cache.
//
// Example:
//
//	mgr := device.NewManager()
//	ptr, err := mgr.Allocate(1024, device.CPU())
//	defer mgr.Deallocate(ptr, device.CPU())
package device

import (
	idevice "github.com/flint-ml/flint/internal/device"
)

// Device identifies an execution and memory context.
type Device = idevice.Device

// Kind distinguishes host from accelerator contexts.
type Kind = idevice.Kind

// Supported device kinds.
const (
	KindCPU         Kind = idevice.KindCPU
	KindAccelerator Kind = idevice.KindAccelerator
)

// Ptr identifies a block of device memory.
type Ptr = idevice.Ptr

// CPU returns the host device. It never fails.
func CPU() Device { return idevice.CPU() }

// Accelerator returns a validated accelerator device.
func Accelerator(rt Runtime, index int) (Device, error) { return idevice.Accelerator(rt, index) }

// Runtime is the native accelerator interface.
type Runtime = idevice.Runtime

// Info describes the capabilities of one device.
type Info = idevice.Info

// Manager pools and moves raw buffers per device.
type Manager = idevice.Manager

// ManagerOption configures a Manager.
type ManagerOption = idevice.ManagerOption

// NewManager creates an empty memory manager.
func NewManager(opts ...ManagerOption) *Manager { return idevice.NewManager(opts...) }

// WithRuntime wires an accelerator runtime into a Manager.
var WithRuntime = idevice.WithRuntime

// WithLogger sets a Manager's logger.
var WithLogger = idevice.WithLogger

// Stats is a snapshot of manager-wide pool counters.
type Stats = idevice.Stats

// Guard is a scope-bound temporary device buffer.
type Guard = idevice.Guard

// NewGuard allocates size bytes on dev and wraps them in a Guard.
func NewGuard(m *Manager, size int, dev Device) (*Guard, error) {
	return idevice.NewGuard(m, size, dev)
}

// Properties caches per-device capability descriptors.
type Properties = idevice.Properties

// PropertiesOption configures a Properties cache.
type PropertiesOption = idevice.PropertiesOption

// NewProperties creates an empty properties cache.
func NewProperties(opts ...PropertiesOption) *Properties { return idevice.NewProperties(opts...) }

// WithPropertiesRuntime wires an accelerator runtime into a cache.
var WithPropertiesRuntime = idevice.WithPropertiesRuntime

// WithPropertiesLogger sets a Properties cache's logger.
var WithPropertiesLogger = idevice.WithPropertiesLogger

// MockRuntime simulates an accelerator runtime in host memory.
type MockRuntime = idevice.MockRuntime

// NewMockRuntime creates a mock runtime exposing the given device count.
func NewMockRuntime(devices int) *MockRuntime { return idevice.NewMockRuntime(devices) }

// PoolCollector exposes a Manager's pool counters as prometheus metrics.
type PoolCollector = idevice.PoolCollector

// NewPoolCollector creates a collector over the given manager.
func NewPoolCollector(m *Manager) *PoolCollector { return idevice.NewPoolCollector(m) }

// DefaultManager returns the shared host-only memory manager.
func DefaultManager() *Manager { return idevice.DefaultManager() }

// DefaultProperties returns the shared properties cache.
func DefaultProperties() *Properties { return idevice.DefaultProperties() }
