package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
	"github.com/shashiranjanraj/ordermgmt/pkg/workerpool"
)

func TestRunsEveryTask(t *testing.T) {
	pool := workerpool.New("test-run", 4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, submit(pool, func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.EqualValues(t, n, count.Load())
}

func TestSubmitRejectsWhenQueueFull(t *testing.T) {
	pool := workerpool.New("test-full", 1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, submit(pool, func() {
		close(started)
		<-blocker
	}))
	<-started

	// One worker means a queue of two.
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	close(blocker)
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New("test-closed", 2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
}

func TestPanickingTaskIsCounted(t *testing.T) {
	pool := workerpool.New("test-panic", 1)
	defer pool.Shutdown()

	require.NoError(t, submit(pool, func() { panic("listener bug") }))

	next := make(chan struct{})
	require.NoError(t, submit(pool, func() { close(next) }))
	select {
	case <-next:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}

	assert.Equal(t, 1.0, counted(t, "test-panic", "panicked"))
}

// submit retries Submit while the queue is full.
func submit(pool *workerpool.Pool, task func()) error {
	for {
		err := pool.Submit(task)
		if !errors.Is(err, workerpool.ErrPoolFull) {
			return err
		}
		time.Sleep(time.Millisecond)
	}
}

func counted(t *testing.T, pool, outcome string) float64 {
	t.Helper()
	families, err := metrics.DefaultRegistry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "ordermgmt_workerpool_tasks_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["pool"] == pool && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestShutdownDrainsQueue(t *testing.T) {
	pool := workerpool.New("test-drain", 2)

	var done atomic.Int64
	for i := 0; i < 10; i++ {
		require.NoError(t, submit(pool, func() {
			time.Sleep(time.Millisecond)
			done.Add(1)
		}))
	}
	pool.Shutdown()

	assert.EqualValues(t, 10, done.Load())
	assert.Zero(t, pool.Pending())
	assert.Equal(t, 10.0, counted(t, "test-drain", "done"))
}
