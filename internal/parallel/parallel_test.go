package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversEveryIndex(t *testing.T) {
	const n = 1000
	var hits [n]int32

	For(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, DefaultConfig())

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d executed %d times, want exactly once", i, h)
		}
	}
}

func TestForSequentialWhenDisabled(t *testing.T) {
	cfg := Config{Enabled: false, Workers: 8, MinChunk: 1}

	// With parallelism off, iterations must run in order on the caller's
	// goroutine.
	var order []int
	For(5, func(i int) { order = append(order, i) }, cfg)

	if len(order) != 5 {
		t.Fatalf("ran %d iterations, want 5", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("iteration order %v not sequential", order)
		}
	}
}

func TestForSmallN(t *testing.T) {
	var count int32
	For(0, func(i int) { atomic.AddInt32(&count, 1) }, DefaultConfig())
	For(-3, func(i int) { atomic.AddInt32(&count, 1) }, DefaultConfig())
	if count != 0 {
		t.Fatalf("zero and negative n ran %d iterations", count)
	}

	For(1, func(i int) { atomic.AddInt32(&count, 1) }, DefaultConfig())
	if count != 1 {
		t.Fatalf("n=1 ran %d iterations, want 1", count)
	}
}

func TestForMinChunkForcesSequential(t *testing.T) {
	cfg := Config{Enabled: true, Workers: 4, MinChunk: 100}

	var order []int
	For(10, func(i int) { order = append(order, i) }, cfg)

	// n below MinChunk stays on the caller's goroutine, so the unguarded
	// append is safe and ordered.
	for i, v := range order {
		if v != i {
			t.Fatalf("iteration order %v not sequential", order)
		}
	}
}

func TestForMoreWorkersThanWork(t *testing.T) {
	cfg := Config{Enabled: true, Workers: 64, MinChunk: 1}
	var count int32
	For(3, func(i int) { atomic.AddInt32(&count, 1) }, cfg)
	if count != 3 {
		t.Fatalf("ran %d iterations, want 3", count)
	}
}
