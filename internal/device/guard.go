package device

// Guard is a scope-bound temporary buffer: it allocates from a Manager on
// construction and returns the block to the pool on Close. Useful for
// staging buffers whose lifetime matches one operation.
type Guard struct {
	m    *Manager
	dev  Device
	ptr  Ptr
	size int
}

// NewGuard allocates size bytes on dev and wraps them in a Guard.
func NewGuard(m *Manager, size int, dev Device) (*Guard, error) {
	ptr, err := m.Allocate(size, dev)
	if err != nil {
		return nil, err
	}
	return &Guard{m: m, dev: dev, ptr: ptr, size: size}, nil
}

// Ptr returns the guarded pointer. Nil after Close or for zero-size guards.
func (g *Guard) Ptr() Ptr { return g.ptr }

// Size returns the guarded allocation size in bytes.
func (g *Guard) Size() int { return g.size }

// Device returns the device the memory lives on.
func (g *Guard) Device() Device { return g.dev }

// Close returns the block to the pool. Safe to call more than once.
func (g *Guard) Close() error {
	if g.ptr != nil {
		g.m.Deallocate(g.ptr, g.dev)
		g.ptr = nil
	}
	return nil
}
