// Package listeners reacts to order events: every event is logged and
// creations and status changes are counted. Audit lines for updates and
// deletes are written off the request path.
package listeners

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/event"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
)

var once sync.Once

// Register subscribes the listeners. Calling it again is a no-op.
func Register() {
	once.Do(func() {
		event.Listen(services.EventOrderCreated, OrderCreated)
		event.ListenAsync(services.EventOrderUpdated, audit(services.EventOrderUpdated))
		event.Listen(services.EventOrderStatusChanged, OrderStatusChanged)
		event.ListenAsync(services.EventOrderDeleted, audit(services.EventOrderDeleted))
	})
}

func OrderCreated(ctx context.Context, payload interface{}) {
	e, ok := payload.(services.OrderEvent)
	if !ok {
		return
	}
	metrics.OrdersCreated.WithLabelValues(string(e.Order.Status)).Inc()
	logger.WithCtx(ctx).Info("order created",
		"order_id", e.Order.ID,
		"customer_id", e.Order.CustomerID,
		"status", e.Order.Status,
		"actor", e.Actor.Username,
	)
}

func OrderStatusChanged(ctx context.Context, payload interface{}) {
	e, ok := payload.(services.OrderEvent)
	if !ok {
		return
	}
	metrics.OrderTransitions.WithLabelValues(string(e.From), string(e.Order.Status)).Inc()
	logger.WithCtx(ctx).Info("order status changed",
		"order_id", e.Order.ID,
		"from", e.From,
		"to", e.Order.Status,
		"actor", e.Actor.Username,
	)
}

func audit(name string) event.Handler {
	return func(ctx context.Context, payload interface{}) {
		e, ok := payload.(services.OrderEvent)
		if !ok {
			return
		}
		logger.WithCtx(ctx).Info(name, "order_id", e.Order.ID, "actor", e.Actor.Username)
	}
}
