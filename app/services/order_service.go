package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/event"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
)

// Order lifecycle events fired through pkg/event. The payload is an
// OrderEvent.
const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// OrderEvent is the payload of every order event. From is set only for
// status changes.
type OrderEvent struct {
	Order models.Order
	Actor Principal
	From  models.Status
}

// OrderStore persists orders.
type OrderStore interface {
	FindByID(ctx context.Context, id string) (models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Page(ctx context.Context, ownerID string, page, size int) ([]models.Order, orm.Pagination, error)
}

// UserFinder resolves a user id, used to check an admin-chosen owner.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// CreateOrderInput is the body of POST /orders. Every field is optional
// except total_amount.
type CreateOrderInput struct {
	CustomerID  *string          `json:"customer_id"`
	OrderDate   *string          `json:"order_date"   validate:"nullable,date"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Status      *string          `json:"status"`
}

// UpdateOrderInput is the body of PUT /orders/{id}. Only supplied fields
// change.
type UpdateOrderInput struct {
	OrderDate   *string          `json:"order_date"   validate:"nullable,date"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Status      *string          `json:"status"`
}

var maxAmount = decimal.New(1, 10) // numeric(12,2)

type OrderService struct {
	orders      OrderStore
	users       UserFinder
	transitions TransitionTable
	now         func() time.Time
}

func NewOrderService(orders OrderStore, users UserFinder, transitions TransitionTable) *OrderService {
	return &OrderService{
		orders:      orders,
		users:       users,
		transitions: transitions,
		now:         time.Now,
	}
}

// Create stores a new order. Users always own what they create; admins may
// name another existing user as the owner.
func (s *OrderService) Create(ctx context.Context, principal Principal, in CreateOrderInput) (models.Order, error) {
	if in.TotalAmount == nil {
		return models.Order{}, apperr.InvalidArgument("total_amount is required")
	}
	amount, err := checkAmount(*in.TotalAmount)
	if err != nil {
		return models.Order{}, err
	}

	date := models.DateOnly(s.now())
	if in.OrderDate != nil {
		if date, err = parseOrderDate(*in.OrderDate); err != nil {
			return models.Order{}, err
		}
	}

	status := models.StatusNew
	if in.Status != nil {
		if status, err = parseStatus(*in.Status); err != nil {
			return models.Order{}, err
		}
	}

	owner, err := s.ownerFor(ctx, principal, in.CustomerID)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		CustomerID:  owner,
		OrderDate:   date,
		TotalAmount: amount,
		Status:      status,
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, err
	}

	logger.WithCtx(ctx).Info("order created", "order_id", order.ID, "owner", order.CustomerID, "actor", principal.Username)
	event.Fire(ctx, EventOrderCreated, OrderEvent{Order: order, Actor: principal})
	return order, nil
}

func (s *OrderService) ownerFor(ctx context.Context, principal Principal, requested *string) (string, error) {
	if !principal.IsAdmin() || requested == nil || strings.TrimSpace(*requested) == "" {
		return principal.ID, nil
	}

	id := strings.TrimSpace(*requested)
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", apperr.NotFound("customer %s does not exist", id)
		}
		return "", err
	}
	return id, nil
}

// Get returns the order with id if principal may see it.
func (s *OrderService) Get(ctx context.Context, principal Principal, id string) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := Authorize(principal, order.CustomerID); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Update applies the supplied fields. Every check runs before the write, so
// a rejected update leaves the stored order untouched.
func (s *OrderService) Update(ctx context.Context, principal Principal, id string, in UpdateOrderInput) (models.Order, error) {
	current, err := s.Get(ctx, principal, id)
	if err != nil {
		return models.Order{}, err
	}

	fields := map[string]interface{}{}

	if in.TotalAmount != nil {
		amount, err := checkAmount(*in.TotalAmount)
		if err != nil {
			return models.Order{}, err
		}
		fields["total_amount"] = amount
	}

	if in.OrderDate != nil {
		date, err := parseOrderDate(*in.OrderDate)
		if err != nil {
			return models.Order{}, err
		}
		fields["order_date"] = date
	}

	next := current.Status
	if in.Status != nil {
		if next, err = parseStatus(*in.Status); err != nil {
			return models.Order{}, err
		}
		if err := s.transitions.Check(current.Status, next); err != nil {
			return models.Order{}, err
		}
		fields["status"] = next
	}

	if len(fields) == 0 {
		return current, nil
	}

	if err := s.orders.Update(ctx, id, fields); err != nil {
		return models.Order{}, err
	}

	updated, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	event.Fire(ctx, EventOrderUpdated, OrderEvent{Order: updated, Actor: principal})
	if in.Status != nil && next != current.Status {
		event.Fire(ctx, EventOrderStatusChanged, OrderEvent{Order: updated, Actor: principal, From: current.Status})
	}
	return updated, nil
}

// Delete removes the order with id if principal may touch it.
func (s *OrderService) Delete(ctx context.Context, principal Principal, id string) error {
	order, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("order deleted", "order_id", id, "actor", principal.Username)
	event.Fire(ctx, EventOrderDeleted, OrderEvent{Order: order, Actor: principal})
	return nil
}

// List returns a page of orders: all of them for admins, the caller's own
// for everyone else.
func (s *OrderService) List(ctx context.Context, principal Principal, page, size int) ([]models.Order, orm.Pagination, error) {
	owner := principal.ID
	if principal.IsAdmin() {
		owner = ""
	} else if owner == "" {
		return nil, orm.Pagination{}, apperr.Unauthorized("authentication required")
	}
	return s.orders.Page(ctx, owner, page, size)
}

func checkAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case !amount.IsPositive():
		return decimal.Decimal{}, apperr.InvalidArgument("total_amount must be greater than 0")
	case !amount.Equal(amount.Round(2)):
		return decimal.Decimal{}, apperr.InvalidArgument("total_amount must have at most 2 decimal places")
	case amount.GreaterThanOrEqual(maxAmount):
		return decimal.Decimal{}, apperr.InvalidArgument("total_amount is too large")
	}
	return amount, nil
}

func parseOrderDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperr.InvalidArgument("order_date must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func parseStatus(s string) (models.Status, error) {
	st, ok := models.ParseStatus(s)
	if !ok {
		return "", apperr.InvalidArgument("unknown status %q", s)
	}
	return st, nil
}
