package device

import (
	"fmt"
	"sync"
	"unsafe"
)

// Verify that MockRuntime implements Runtime.
var _ Runtime = (*MockRuntime)(nil)

// MockRuntime simulates an accelerator runtime in host memory. Device
// buffers are plain byte slices kept reachable in a registry, so pointer
// identity and copy fidelity behave exactly like a real runtime. Used by
// tests and available to callers that want accelerator code paths without
// accelerator hardware.
type MockRuntime struct {
	devices int

	mu      sync.Mutex
	buffers map[Ptr][]byte

	// FailAlloc forces the next Alloc to fail, for error-path tests.
	FailAlloc bool
}

// NewMockRuntime creates a mock runtime exposing the given device count.
func NewMockRuntime(devices int) *MockRuntime {
	return &MockRuntime{
		devices: devices,
		buffers: make(map[Ptr][]byte),
	}
}

// DeviceCount returns the simulated device count.
func (r *MockRuntime) DeviceCount() int { return r.devices }

// Alloc allocates a host-backed buffer standing in for device memory.
func (r *MockRuntime) Alloc(dev Device, size int) (Ptr, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAlloc {
		r.FailAlloc = false
		return nil, fmt.Errorf("mock: out of memory on %s", dev)
	}
	buf := make([]byte, size)
	ptr := unsafe.Pointer(&buf[0])
	r.buffers[ptr] = buf
	return ptr, nil
}

// Free releases a buffer previously returned by Alloc.
func (r *MockRuntime) Free(dev Device, ptr Ptr) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.buffers[ptr]; !ok {
		return fmt.Errorf("mock: free of unknown pointer on %s", dev)
	}
	delete(r.buffers, ptr)
	return nil
}

// Write copies host bytes into a simulated device buffer.
func (r *MockRuntime) Write(dev Device, dst Ptr, src []byte) error {
	buf, err := r.lookup(dev, dst, len(src))
	if err != nil {
		return err
	}
	copy(buf, src)
	return nil
}

// Read copies a simulated device buffer back to host bytes.
func (r *MockRuntime) Read(dev Device, dst []byte, src Ptr) error {
	buf, err := r.lookup(dev, src, len(dst))
	if err != nil {
		return err
	}
	copy(dst, buf)
	return nil
}

// Info returns canned capabilities for the simulated device.
func (r *MockRuntime) Info(dev Device) (Info, error) {
	if dev.Index() >= r.devices {
		return Info{}, fmt.Errorf("mock: no such device %s", dev)
	}
	return Info{
		MemoryCapacity:     1 << 30,
		MaxThreadsPerBlock: 1024,
		WarpSize:           32,
		MaxSharedMemory:    48 * 1024,
		MaxGridSize:        [3]int{65535, 65535, 65535},
		MaxBlockSize:       [3]int{1024, 1024, 64},
		ComputeMajor:       1,
		ComputeMinor:       0,
		UnifiedAddressing:  true,
		Name:               fmt.Sprintf("Mock Accelerator %d", dev.Index()),
	}, nil
}

func (r *MockRuntime) lookup(dev Device, ptr Ptr, n int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.buffers[ptr]
	if !ok {
		return nil, fmt.Errorf("mock: unknown pointer on %s", dev)
	}
	if n > len(buf) {
		return nil, fmt.Errorf("mock: copy of %d bytes exceeds buffer size %d", n, len(buf))
	}
	return buf[:n], nil
}
