// Copyright 2025 The Flint Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu exposes the WebGPU-backed accelerator runtime.
//
// Build with -tags webgpu to compile the native runtime; without the tag
// New fails and IsAvailable reports false.
//
// Example:
//
//	rt, err := webgpu.New()
//	if err != nil {
//	    // fall back to host-only operation
//	}
//	mgr := device.NewManager(device.WithRuntime(rt))
package webgpu

import (
	"github.com/flint-ml/flint/device"
	iwebgpu "github.com/flint-ml/flint/internal/device/webgpu"
)

// Runtime is the WebGPU accelerator runtime.
type Runtime = iwebgpu.Runtime

// Compile-time check that Runtime implements device.Runtime.
var _ device.Runtime = (*Runtime)(nil)

// New initializes the WebGPU runtime.
func New() (*Runtime, error) { return iwebgpu.New() }

// IsAvailable reports whether a WebGPU adapter can be acquired.
func IsAvailable() bool { return iwebgpu.IsAvailable() }
