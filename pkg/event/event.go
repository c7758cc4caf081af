// Package event is an in-process event dispatcher. Services fire domain
// events after a successful write; listeners registered at boot log them and
// update metrics. Listeners added with ListenAsync run on a worker pool once
// one is installed with UsePool, and inline until then.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

type listener struct {
	h     Handler
	async bool
}

var (
	mu       sync.RWMutex
	handlers = map[string][]listener{}
	pool     *workerpool.Pool
)

// Listen registers a handler that runs before Fire returns.
func Listen(event string, handler Handler) {
	add(event, listener{h: handler})
}

// ListenAsync registers a handler that runs on the installed pool. The
// payload must not be mutated after Fire.
func ListenAsync(event string, handler Handler) {
	add(event, listener{h: handler, async: true})
}

func add(event string, l listener) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], l)
}

// UsePool installs the pool for asynchronous listeners. nil restores
// inline delivery.
func UsePool(p *workerpool.Pool) {
	mu.Lock()
	defer mu.Unlock()
	pool = p
}

// Fire dispatches an event to all listeners in registration order. A
// panicking listener is logged and does not stop the others.
func Fire(ctx context.Context, event string, payload interface{}) {
	mu.RLock()
	ls := make([]listener, len(handlers[event]))
	copy(ls, handlers[event])
	p := pool
	mu.RUnlock()

	for _, l := range ls {
		if !l.async || p == nil {
			dispatch(ctx, event, l.h, payload)
			continue
		}
		h, detached := l.h, context.WithoutCancel(ctx)
		err := p.Submit(func() { dispatch(detached, event, h, payload) })
		if err != nil {
			// A full or closed pool degrades to inline delivery.
			logger.WithCtx(ctx).Warn("event delivered inline", "event", event, "error", err)
			dispatch(ctx, event, l.h, payload)
		}
	}
}

func dispatch(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked",
				"event", event,
				"error", fmt.Sprintf("%v", r),
			)
		}
	}()
	h(ctx, payload)
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]listener{}
}
