//go:build webgpu

// Package webgpu implements the flint accelerator runtime on top of
// WebGPU, using go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO
// bindings. Build with -tags webgpu; without the tag a stub runtime is
// compiled and New fails unconditionally.
package webgpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/flint-ml/flint/internal/device"
	"github.com/flint-ml/flint/internal/errdefs"
)

// Verify that Runtime implements device.Runtime.
var _ device.Runtime = (*Runtime)(nil)

// bufferUsage covers storage plus both copy directions, so every buffer
// can serve as a transfer source and destination.
const bufferUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

// handle wraps one GPU buffer. Its address is the stable device.Ptr handed
// to the memory manager.
type handle struct {
	buffer *wgpu.Buffer
	size   uint64
}

// Runtime is a device.Runtime backed by one WebGPU adapter.
type Runtime struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	dev      *wgpu.Device
	queue    *wgpu.Queue
	info     wgpu.AdapterInfo

	mu      sync.Mutex
	buffers map[device.Ptr]*handle
}

// New initializes the WebGPU runtime. Returns a DeviceError if the native
// library or an adapter is unavailable.
func New() (rt *Runtime, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			rt = nil
			err = errdefs.Devicef("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, errdefs.DeviceWrap(adapterErr, "webgpu: failed to request adapter")
	}

	info := adapter.GetInfo()

	dev, devErr := adapter.RequestDevice(nil)
	if devErr != nil {
		adapter.Release()
		instance.Release()
		return nil, errdefs.DeviceWrap(devErr, "webgpu: failed to request device")
	}

	queue := dev.GetQueue()
	if queue == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, errdefs.Devicef("webgpu: failed to get queue")
	}

	return &Runtime{
		instance: instance,
		adapter:  adapter,
		dev:      dev,
		queue:    queue,
		info:     info,
		buffers:  make(map[device.Ptr]*handle),
	}, nil
}

// IsAvailable reports whether a WebGPU adapter can be acquired.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// DeviceCount returns 1 when an adapter was acquired. WebGPU exposes a
// single adapter per instance request; multi-adapter enumeration is not
// supported by the binding.
func (r *Runtime) DeviceCount() int { return 1 }

// Alloc creates a GPU buffer of the given size and returns a stable handle.
func (r *Runtime) Alloc(dev device.Device, size int) (device.Ptr, error) {
	h := &handle{size: uint64(size)}
	h.buffer = r.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: bufferUsage,
		Size:  h.size,
	})
	if h.buffer == nil {
		return nil, errdefs.Devicef("webgpu: failed to create %d byte buffer on %s", size, dev)
	}

	ptr := device.Ptr(unsafe.Pointer(h))
	r.mu.Lock()
	r.buffers[ptr] = h
	r.mu.Unlock()
	return ptr, nil
}

// Free releases the GPU buffer behind ptr.
func (r *Runtime) Free(dev device.Device, ptr device.Ptr) error {
	r.mu.Lock()
	h, ok := r.buffers[ptr]
	delete(r.buffers, ptr)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("webgpu: free of unknown buffer on %s", dev)
	}
	h.buffer.Release()
	return nil
}

// Write uploads host bytes into a GPU buffer through a mapped staging
// buffer and a buffer-to-buffer copy on the queue.
func (r *Runtime) Write(dev device.Device, dst device.Ptr, src []byte) error {
	h, err := r.lookup(dev, dst, uint64(len(src)))
	if err != nil {
		return err
	}

	size := uint64(len(src))
	staging := r.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mapped := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mapped, src)
	staging.Unmap()

	encoder := r.dev.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, h.buffer, 0, size)
	cmd := encoder.Finish(nil)
	r.queue.Submit(cmd)
	return nil
}

// Read downloads a GPU buffer into host bytes using a MapRead staging
// buffer.
func (r *Runtime) Read(dev device.Device, dst []byte, src device.Ptr) error {
	h, err := r.lookup(dev, src, uint64(len(dst)))
	if err != nil {
		return err
	}

	size := uint64(len(dst))
	staging := r.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := r.dev.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(h.buffer, 0, staging, 0, size)
	cmd := encoder.Finish(nil)
	r.queue.Submit(cmd)

	if err := staging.MapAsync(r.dev, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}
	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mapped := unsafe.Slice((*byte)(mappedPtr), size)
	copy(dst, mapped)
	staging.Unmap()
	return nil
}

// Info reports the adapter identity. WebGPU does not expose CUDA-style
// capability numbers, so grid and capability fields carry the portable
// WebGPU base-profile compute limits.
func (r *Runtime) Info(dev device.Device) (device.Info, error) {
	if dev.Index() != 0 {
		return device.Info{}, fmt.Errorf("webgpu: no such device %s", dev)
	}
	name := r.info.Device
	if name == "" {
		name = r.info.Description
	}
	return device.Info{
		MemoryCapacity:     256 << 20, // base-profile maxBufferSize
		MaxThreadsPerBlock: 256,
		WarpSize:           32,
		MaxSharedMemory:    16 * 1024,
		MaxGridSize:        [3]int{65535, 65535, 65535},
		MaxBlockSize:       [3]int{256, 256, 64},
		UnifiedAddressing:  false,
		Name:               name,
	}, nil
}

func (r *Runtime) lookup(dev device.Device, ptr device.Ptr, n uint64) (*handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.buffers[ptr]
	if !ok {
		return nil, fmt.Errorf("webgpu: unknown buffer on %s", dev)
	}
	if n > h.size {
		return nil, fmt.Errorf("webgpu: copy of %d bytes exceeds buffer size %d", n, h.size)
	}
	return h, nil
}

// Release frees all live buffers and the underlying adapter and device.
func (r *Runtime) Release() {
	r.mu.Lock()
	for ptr, h := range r.buffers {
		h.buffer.Release()
		delete(r.buffers, ptr)
	}
	r.mu.Unlock()

	r.dev.Release()
	r.adapter.Release()
	r.instance.Release()
}
