package device

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/flint-ml/flint/internal/errdefs"
)

// Properties caches per-device capability descriptors. Each device is
// populated exactly once, under the cache lock, so concurrent callers for
// the same device observe the same *Info instance. A failed accelerator
// query caches nothing; a later call is free to retry.
type Properties struct {
	mu    sync.Mutex
	infos map[Device]*Info

	rt  Runtime
	log zerolog.Logger
}

// PropertiesOption configures a Properties cache.
type PropertiesOption func(*Properties)

// WithPropertiesRuntime wires an accelerator runtime into the cache.
func WithPropertiesRuntime(rt Runtime) PropertiesOption {
	return func(p *Properties) { p.rt = rt }
}

// WithPropertiesLogger sets the logger used when device info is populated.
func WithPropertiesLogger(log zerolog.Logger) PropertiesOption {
	return func(p *Properties) { p.log = log }
}

// NewProperties creates an empty properties cache.
func NewProperties(opts ...PropertiesOption) *Properties {
	p := &Properties{
		infos: make(map[Device]*Info),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Info returns the cached capability descriptor for dev, populating it on
// first use. The returned pointer is stable for the cache lifetime.
func (p *Properties) Info(dev Device) (*Info, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if info, ok := p.infos[dev]; ok {
		return info, nil
	}

	info, err := p.queryInfo(dev)
	if err != nil {
		return nil, err
	}
	p.infos[dev] = info

	p.log.Debug().Stringer("device", dev).Str("name", info.Name).Msg("device info populated")
	return info, nil
}

// queryInfo builds the descriptor for one device. The host path derives
// the thread count from host concurrency and fills sentinel values for
// accelerator-only fields; the accelerator path queries the runtime.
func (p *Properties) queryInfo(dev Device) (*Info, error) {
	if dev.IsCPU() {
		return &Info{
			MaxThreadsPerBlock: runtime.NumCPU(),
			WarpSize:           1,
			MaxGridSize:        [3]int{1, 1, 1},
			MaxBlockSize:       [3]int{1, 1, 1},
			Name:               "CPU",
		}, nil
	}
	if p.rt == nil {
		return nil, errdefs.Devicef("no accelerator runtime configured for %s", dev)
	}
	info, err := p.rt.Info(dev)
	if err != nil {
		return nil, errdefs.DeviceWrap(err, "failed to query properties of %s", dev)
	}
	return &info, nil
}
