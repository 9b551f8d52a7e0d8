package device

import "unsafe"

// Ptr identifies a block of device memory. For host blocks it points at
// 64-byte-aligned host memory; for accelerator blocks it is an opaque
// handle owned by the Runtime. Callers must not dereference accelerator
// pointers directly; data moves through Manager copy operations.
type Ptr = unsafe.Pointer

// Info describes the capabilities of one device. Instances are populated
// once per device by a Properties cache and never invalidated.
type Info struct {
	MemoryCapacity     uint64
	MaxThreadsPerBlock int
	WarpSize           int
	MaxSharedMemory    int
	MaxGridSize        [3]int
	MaxBlockSize       [3]int
	ComputeMajor       int
	ComputeMinor       int
	UnifiedAddressing  bool
	Name               string
}

// Runtime is the native accelerator interface consumed by the Manager and
// the Properties cache. Implementations wrap a real accelerator API (the
// webgpu subpackage) or simulate one in host memory (MockRuntime).
//
// All methods may be called concurrently.
type Runtime interface {
	// DeviceCount returns the number of accelerator devices detected.
	DeviceCount() int

	// Alloc allocates size bytes on the device and returns a stable handle.
	Alloc(dev Device, size int) (Ptr, error)

	// Free releases a handle previously returned by Alloc.
	Free(dev Device, ptr Ptr) error

	// Write copies len(src) bytes from host memory into device memory.
	Write(dev Device, dst Ptr, src []byte) error

	// Read copies len(dst) bytes from device memory into host memory.
	Read(dev Device, dst []byte, src Ptr) error

	// Info queries the capabilities of one device.
	Info(dev Device) (Info, error)
}
