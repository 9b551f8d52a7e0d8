// Package parallel provides the bounded parallel-for construct used by
// flint's blocked kernels. The parallel region always joins before For
// returns; no goroutine outlives the call.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution.
type Config struct {
	Enabled  bool // run iterations across goroutines when true
	Workers  int  // number of worker goroutines
	MinChunk int  // minimum iterations per worker to justify the fan-out
}

// DefaultConfig derives a configuration from the host CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:  n > 1,
		Workers:  n,
		MinChunk: 1,
	}
}

// For executes f(i) for every i in [0, n). Iterations are split into
// contiguous chunks across cfg.Workers goroutines; execution stays
// sequential when parallelism is disabled or n is below the chunk
// threshold. Iterations must be independent.
func For(n int, f func(i int), cfg Config) {
	if n <= 0 {
		return
	}
	workers := cfg.Workers
	if !cfg.Enabled || workers <= 1 || n <= cfg.MinChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	if chunk < cfg.MinChunk {
		chunk = cfg.MinChunk
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
