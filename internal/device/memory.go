package device

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/flint-ml/flint/internal/errdefs"
)

// hostAlignment is the byte alignment of host allocations, chosen so a
// block never straddles a cache line and SIMD loads stay aligned.
const hostAlignment = 64

// memoryBlock is one pooled allocation. Blocks are owned by exactly one
// device pool and never move between pools; only the inUse flag mutates
// after creation.
type memoryBlock struct {
	ptr   Ptr
	size  int
	inUse bool
	host  []byte // backing slab for host blocks, keeps the memory reachable
}

// pool is the ordered block list plus aggregate sizes for one device.
type pool struct {
	blocks   []*memoryBlock
	total    int
	maxBlock int
}

// Stats is a snapshot of manager-wide pool counters.
type Stats struct {
	PoolBytes    int // total bytes held across all pools
	Blocks       int // number of pooled blocks
	BlocksInUse  int // blocks currently handed out
	MaxBlockSize int // largest single block across all pools
	Hits         uint64
	Misses       uint64
}

// Manager is the process-wide authority for allocating, pooling and moving
// raw buffers per device. All pool mutations happen under one mutex; it is
// safe for concurrent use. Construct fresh instances in tests instead of
// sharing DefaultManager.
type Manager struct {
	mu    sync.Mutex
	pools map[Device]*pool

	rt  Runtime
	log zerolog.Logger

	hits   uint64
	misses uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRuntime wires an accelerator runtime into the manager. Without one,
// accelerator allocations fail with a DeviceError.
func WithRuntime(rt Runtime) ManagerOption {
	return func(m *Manager) { m.rt = rt }
}

// WithLogger sets the logger used for pool growth and fallback events.
// The default logger is disabled.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// NewManager creates an empty memory manager. Pools are created lazily on
// the first request for each device.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		pools: make(map[Device]*pool),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allocate returns a pointer to at least size bytes on the given device.
// A zero size returns nil without touching the pool. The device pool is
// searched first-fit for a free block; on a miss the pool grows by at
// least half its current total to amortize growth, and the new block is
// handed out. Host memory is 64-byte aligned; accelerator memory comes
// from the native runtime and failures surface as DeviceError.
func (m *Manager) Allocate(size int, dev Device) (Ptr, error) {
	if size < 0 {
		return nil, errdefs.Memoryf("negative allocation size %d", size)
	}
	if size == 0 {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.pools[dev]
	if p == nil {
		p = &pool{}
		m.pools[dev] = p
	}

	for _, b := range p.blocks {
		if !b.inUse && b.size >= size {
			b.inUse = true
			m.hits++
			return b.ptr, nil
		}
	}
	m.misses++

	blockSize := size
	if grow := p.total / 2; grow > blockSize {
		blockSize = grow
	}

	b := &memoryBlock{size: blockSize, inUse: true}
	if dev.IsCPU() {
		b.host, b.ptr = alignedAlloc(blockSize)
	} else {
		if m.rt == nil {
			return nil, errdefs.Devicef("no accelerator runtime configured for %s", dev)
		}
		ptr, err := m.rt.Alloc(dev, blockSize)
		if err != nil {
			return nil, errdefs.DeviceWrap(err, "failed to allocate %d bytes on %s", blockSize, dev)
		}
		b.ptr = ptr
	}

	p.blocks = append(p.blocks, b)
	p.total += blockSize
	if blockSize > p.maxBlock {
		p.maxBlock = blockSize
	}

	m.log.Debug().
		Stringer("device", dev).
		Int("requested", size).
		Int("block", blockSize).
		Int("pool_total", p.total).
		Msg("memory pool grew")

	return b.ptr, nil
}

// Deallocate marks the block holding ptr free for reuse. The underlying
// memory is retained by the pool, so an equal-sized Allocate that follows
// returns the same pointer. A nil pointer or an unknown pointer is a no-op.
func (m *Manager) Deallocate(ptr Ptr, dev Device) {
	if ptr == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.pools[dev]
	if p == nil {
		return
	}
	for _, b := range p.blocks {
		if b.ptr == ptr {
			b.inUse = false
			return
		}
	}
	m.log.Debug().Stringer("device", dev).Msg("deallocate of pointer not owned by pool")
}

// CopyToDevice copies len(src) bytes of host memory into device memory at
// dst. For the host device this is a flat byte copy; accelerator copies
// delegate to the runtime and failures surface as DeviceError with the
// native status text.
func (m *Manager) CopyToDevice(dst Ptr, src []byte, dev Device) error {
	if len(src) == 0 {
		return nil
	}
	if dev.IsCPU() {
		copy(hostBytes(dst, len(src)), src)
		return nil
	}
	if m.rt == nil {
		return errdefs.Devicef("no accelerator runtime configured for %s", dev)
	}
	if err := m.rt.Write(dev, dst, src); err != nil {
		return errdefs.DeviceWrap(err, "host to %s memory copy failed", dev)
	}
	return nil
}

// CopyToHost copies len(dst) bytes of device memory at src into host
// memory.
func (m *Manager) CopyToHost(dst []byte, src Ptr, dev Device) error {
	if len(dst) == 0 {
		return nil
	}
	if dev.IsCPU() {
		copy(dst, hostBytes(src, len(dst)))
		return nil
	}
	if m.rt == nil {
		return errdefs.Devicef("no accelerator runtime configured for %s", dev)
	}
	if err := m.rt.Read(dev, dst, src); err != nil {
		return errdefs.DeviceWrap(err, "%s to host memory copy failed", dev)
	}
	return nil
}

// PeerCopy copies size bytes between two device buffers. The transfer is
// staged through host memory, which works for every runtime pair and
// preserves byte-for-byte fidelity; direct peer transfers are left to
// runtimes that support them.
func (m *Manager) PeerCopy(dst Ptr, dstDev Device, src Ptr, srcDev Device, size int) error {
	if size == 0 {
		return nil
	}
	if dstDev.IsCPU() && srcDev.IsCPU() {
		copy(hostBytes(dst, size), hostBytes(src, size))
		return nil
	}
	stage := make([]byte, size)
	if err := m.CopyToHost(stage, src, srcDev); err != nil {
		return err
	}
	return m.CopyToDevice(dst, stage, dstDev)
}

// Stats returns a snapshot of the pool counters across all devices.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{Hits: m.hits, Misses: m.misses}
	for _, p := range m.pools {
		s.PoolBytes += p.total
		s.Blocks += len(p.blocks)
		if p.maxBlock > s.MaxBlockSize {
			s.MaxBlockSize = p.maxBlock
		}
		for _, b := range p.blocks {
			if b.inUse {
				s.BlocksInUse++
			}
		}
	}
	return s
}

// Close releases every pooled block back to the OS or the accelerator
// runtime and empties the pools. Pointers handed out earlier become
// invalid. The manager remains usable; pools are recreated on demand.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for dev, p := range m.pools {
		for _, b := range p.blocks {
			if b.host == nil && m.rt != nil {
				if err := m.rt.Free(dev, b.ptr); err != nil {
					errs = append(errs, errdefs.DeviceWrap(err, "failed to free block on %s", dev))
				}
			}
			b.host = nil
			b.ptr = nil
		}
		delete(m.pools, dev)
	}
	return errors.Join(errs...)
}

// alignedAlloc allocates a host slab and returns it with a pointer to its
// first 64-byte-aligned offset. The slab must stay referenced as long as
// the pointer is live.
func alignedAlloc(size int) ([]byte, Ptr) {
	buf := make([]byte, size+hostAlignment)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	off := (hostAlignment - addr%hostAlignment) % hostAlignment
	return buf, unsafe.Pointer(&buf[off])
}

// hostBytes reinterprets a host pointer as a byte slice of length n.
func hostBytes(ptr Ptr, n int) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}
