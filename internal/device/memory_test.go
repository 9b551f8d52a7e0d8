package device

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flint-ml/flint/internal/errdefs"
)

func TestAllocateBasics(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	ptr, err := m.Allocate(512, cpu)
	require.NoError(t, err)
	require.NotNil(t, ptr)

	// Zero-size requests are not errors and touch no pool.
	zero, err := m.Allocate(0, cpu)
	require.NoError(t, err)
	assert.Nil(t, zero)

	_, err = m.Allocate(-1, cpu)
	var memErr *errdefs.MemoryError
	require.Error(t, err)
	assert.True(t, errors.As(err, &memErr))
}

func TestHostAllocationAlignment(t *testing.T) {
	m := NewManager()
	for _, size := range []int{1, 7, 64, 1000} {
		ptr, err := m.Allocate(size, CPU())
		require.NoError(t, err)
		assert.Zero(t, uintptr(ptr)%hostAlignment, "allocation of %d bytes not 64-byte aligned", size)
	}
}

func TestPoolReuseReturnsSamePointer(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	ptr1, err := m.Allocate(1024, cpu)
	require.NoError(t, err)
	m.Deallocate(ptr1, cpu)

	ptr2, err := m.Allocate(1024, cpu)
	require.NoError(t, err)
	assert.Equal(t, ptr1, ptr2, "free+realloc of equal size must reuse the pooled block")

	// A smaller request is also served by the free block, first-fit.
	m.Deallocate(ptr2, cpu)
	ptr3, err := m.Allocate(16, cpu)
	require.NoError(t, err)
	assert.Equal(t, ptr1, ptr3)
}

func TestPoolAmortizedGrowth(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	// First block is exactly the request.
	_, err := m.Allocate(1000, cpu)
	require.NoError(t, err)
	assert.Equal(t, 1000, m.Stats().PoolBytes)

	// With the first block in use, a tiny request grows the pool by at
	// least half its current total.
	_, err = m.Allocate(10, cpu)
	require.NoError(t, err)

	s := m.Stats()
	assert.Equal(t, 1500, s.PoolBytes)
	assert.Equal(t, 2, s.Blocks)
	assert.Equal(t, 2, s.BlocksInUse)
	assert.Equal(t, uint64(0), s.Hits)
	assert.Equal(t, uint64(2), s.Misses)
}

func TestDeallocateEdgeCases(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	// Nil and foreign pointers are no-ops.
	m.Deallocate(nil, cpu)
	var local [8]byte
	m.Deallocate(Ptr(&local[0]), cpu)

	ptr, err := m.Allocate(64, cpu)
	require.NoError(t, err)
	m.Deallocate(ptr, cpu)
	assert.Equal(t, 0, m.Stats().BlocksInUse)
}

func TestHostCopyRoundTrip(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	src := make([]byte, 1024)
	for i := range src {
		src[i] = byte(i % 256)
	}

	ptr, err := m.Allocate(len(src), cpu)
	require.NoError(t, err)
	require.NoError(t, m.CopyToDevice(ptr, src, cpu))

	dst := make([]byte, len(src))
	require.NoError(t, m.CopyToHost(dst, ptr, cpu))
	assert.True(t, bytes.Equal(src, dst), "host round trip must be byte-for-byte")
}

func TestAcceleratorAllocateAndCopy(t *testing.T) {
	rt := NewMockRuntime(1)
	m := NewManager(WithRuntime(rt))
	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)

	ptr, err := m.Allocate(256, acc)
	require.NoError(t, err)
	require.NotNil(t, ptr)

	src := make([]byte, 256)
	for i := range src {
		src[i] = byte(255 - i%256)
	}
	require.NoError(t, m.CopyToDevice(ptr, src, acc))

	dst := make([]byte, 256)
	require.NoError(t, m.CopyToHost(dst, ptr, acc))
	assert.True(t, bytes.Equal(src, dst))

	// Pool reuse holds for accelerator blocks too.
	m.Deallocate(ptr, acc)
	again, err := m.Allocate(256, acc)
	require.NoError(t, err)
	assert.Equal(t, ptr, again)
}

func TestAcceleratorAllocationFailure(t *testing.T) {
	rt := NewMockRuntime(1)
	m := NewManager(WithRuntime(rt))
	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)

	rt.FailAlloc = true
	_, err = m.Allocate(128, acc)
	require.Error(t, err)

	var devErr *errdefs.DeviceError
	assert.True(t, errors.As(err, &devErr), "native allocation failure must surface as DeviceError")
	assert.Contains(t, err.Error(), "out of memory")
}

func TestAcceleratorWithoutRuntime(t *testing.T) {
	m := NewManager()
	rt := NewMockRuntime(1)
	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)

	// The manager has no runtime wired, even though the device is valid.
	_, err = m.Allocate(64, acc)
	var devErr *errdefs.DeviceError
	require.Error(t, err)
	assert.True(t, errors.As(err, &devErr))
}

func TestPeerCopy(t *testing.T) {
	rt := NewMockRuntime(2)
	m := NewManager(WithRuntime(rt))
	acc0, err := Accelerator(rt, 0)
	require.NoError(t, err)
	acc1, err := Accelerator(rt, 1)
	require.NoError(t, err)

	src := make([]byte, 512)
	for i := range src {
		src[i] = byte(i * 7 % 256)
	}

	p0, err := m.Allocate(len(src), acc0)
	require.NoError(t, err)
	require.NoError(t, m.CopyToDevice(p0, src, acc0))

	p1, err := m.Allocate(len(src), acc1)
	require.NoError(t, err)
	require.NoError(t, m.PeerCopy(p1, acc1, p0, acc0, len(src)))

	dst := make([]byte, len(src))
	require.NoError(t, m.CopyToHost(dst, p1, acc1))
	assert.True(t, bytes.Equal(src, dst), "peer copy must preserve bytes")
}

func TestGuard(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	g, err := NewGuard(m, 128, cpu)
	require.NoError(t, err)
	require.NotNil(t, g.Ptr())
	assert.Equal(t, 128, g.Size())
	assert.Equal(t, cpu, g.Device())

	held := g.Ptr()
	require.NoError(t, g.Close())
	assert.Nil(t, g.Ptr())
	require.NoError(t, g.Close()) // idempotent

	// The guarded block went back to the pool.
	again, err := m.Allocate(128, cpu)
	require.NoError(t, err)
	assert.Equal(t, held, again)
}

func TestManagerClose(t *testing.T) {
	rt := NewMockRuntime(1)
	m := NewManager(WithRuntime(rt))
	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)

	_, err = m.Allocate(64, CPU())
	require.NoError(t, err)
	_, err = m.Allocate(64, acc)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Stats().Blocks)
	assert.Empty(t, rt.buffers, "close must free accelerator blocks through the runtime")

	// The manager stays usable after Close.
	_, err = m.Allocate(32, CPU())
	require.NoError(t, err)
}

func TestManagerConcurrentAllocate(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	done := make(chan Ptr, 64)
	for i := 0; i < 64; i++ {
		go func() {
			ptr, err := m.Allocate(4096, cpu)
			if err != nil {
				done <- nil
				return
			}
			done <- ptr
		}()
	}

	seen := make(map[Ptr]bool)
	for i := 0; i < 64; i++ {
		ptr := <-done
		require.NotNil(t, ptr)
		assert.False(t, seen[ptr], "two live allocations must never share a block")
		seen[ptr] = true
	}
}
