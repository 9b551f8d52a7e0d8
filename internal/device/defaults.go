package device

import "sync"

// Process-wide defaults, initialized lazily. Library code accepts a
// *Manager / *Properties explicitly; these exist for applications that
// want one shared instance without wiring it through every call site.
// Tests should construct their own instances instead.
var (
	defaultOnce       sync.Once
	defaultManager    *Manager
	defaultProperties *Properties
)

func initDefaults() {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
		defaultProperties = NewProperties()
	})
}

// DefaultManager returns the shared host-only memory manager.
func DefaultManager() *Manager {
	initDefaults()
	return defaultManager
}

// DefaultProperties returns the shared properties cache.
func DefaultProperties() *Properties {
	initDefaults()
	return defaultProperties
}
