// Package workerpool runs fire-and-forget work on a fixed set of goroutines.
// The event dispatcher uses it for asynchronous listeners so that audit
// logging never holds up an HTTP response.
//
//	pool := workerpool.New("events", 4)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(func() { ... }); errors.Is(err, workerpool.ErrPoolFull) {
//	    // shed or run inline
//	}
package workerpool

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

var (
	tasksTotal = metrics.NewCounter("ordermgmt", "workerpool_tasks_total",
		"Tasks handed to a worker pool, by pool and outcome.",
		[]string{"pool", "outcome"})

	queued = metrics.NewGauge("ordermgmt", "workerpool_queued_tasks",
		"Tasks waiting for a free worker.",
		[]string{"pool"})
)

// Pool is a bounded goroutine pool. The queue holds twice as many tasks as
// there are workers.
type Pool struct {
	name   string
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New starts size workers. size below 1 is treated as 1.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		name:  name,
		tasks: make(chan func(), size*2),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Name is the label the pool reports metrics under.
func (p *Pool) Name() string { return p.name }

// Pending is the number of queued tasks not yet picked up.
func (p *Pool) Pending() int { return len(p.tasks) }

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		queued.WithLabelValues(p.name).Inc()
		return nil
	default:
		tasksTotal.WithLabelValues(p.name, "rejected").Inc()
		return ErrPoolFull
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish. It is
// safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.tasks)
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		queued.WithLabelValues(p.name).Dec()
		p.run(task)
	}
}

// run executes task; a panic is logged and the worker keeps going.
func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			tasksTotal.WithLabelValues(p.name, "panicked").Inc()
			logger.Error("workerpool: task panicked",
				"pool", p.name,
				"error", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	task()
	tasksTotal.WithLabelValues(p.name, "done").Inc()
}
