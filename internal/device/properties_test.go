package device

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flint-ml/flint/internal/errdefs"
)

func TestHostProperties(t *testing.T) {
	p := NewProperties()

	info, err := p.Info(CPU())
	require.NoError(t, err)
	assert.Equal(t, "CPU", info.Name)
	assert.Equal(t, runtime.NumCPU(), info.MaxThreadsPerBlock)
	assert.Equal(t, 1, info.WarpSize)
	assert.Equal(t, [3]int{1, 1, 1}, info.MaxGridSize)
}

func TestPropertiesCachedIdentity(t *testing.T) {
	rt := NewMockRuntime(2)
	p := NewProperties(WithPropertiesRuntime(rt))
	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)

	first, err := p.Info(acc)
	require.NoError(t, err)
	second, err := p.Info(acc)
	require.NoError(t, err)
	assert.Same(t, first, second, "repeated lookups must return the cached descriptor")

	other, err := Accelerator(rt, 1)
	require.NoError(t, err)
	info1, err := p.Info(other)
	require.NoError(t, err)
	assert.NotSame(t, first, info1)
	assert.Equal(t, "Mock Accelerator 1", info1.Name)
}

func TestPropertiesConcurrentPopulate(t *testing.T) {
	rt := NewMockRuntime(1)
	p := NewProperties(WithPropertiesRuntime(rt))
	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)

	const goroutines = 16
	infos := make([]*Info, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			info, err := p.Info(acc)
			if err == nil {
				infos[i] = info
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		require.NotNil(t, infos[i])
		assert.Same(t, infos[0], infos[i], "all goroutines must observe one populated descriptor")
	}
}

func TestPropertiesWithoutRuntime(t *testing.T) {
	p := NewProperties()
	rt := NewMockRuntime(1)
	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)

	_, err = p.Info(acc)
	var devErr *errdefs.DeviceError
	require.Error(t, err)
	assert.True(t, errors.As(err, &devErr))
}

func TestPropertiesFailureNotCached(t *testing.T) {
	rt := NewMockRuntime(1)
	p := NewProperties(WithPropertiesRuntime(rt))

	// A device beyond the runtime's count makes the query fail. The failure
	// must not poison the cache for devices that work.
	bad := Device{kind: KindAccelerator, index: 5}
	_, err := p.Info(bad)
	require.Error(t, err)

	acc, err := Accelerator(rt, 0)
	require.NoError(t, err)
	info, err := p.Info(acc)
	require.NoError(t, err)
	assert.Equal(t, "Mock Accelerator 0", info.Name)
	assert.Equal(t, 32, info.WarpSize)
	assert.Equal(t, uint64(1<<30), info.MemoryCapacity)
}
