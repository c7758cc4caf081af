package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/event"
)

func amount(s string) *decimal.Decimal { return ptr(decimal.RequireFromString(s)) }

func (f *fixture) order(t *testing.T, p services.Principal, total string) models.Order {
	t.Helper()
	o, err := f.orders.Create(f.ctx, p, services.CreateOrderInput{TotalAmount: amount(total)})
	require.NoError(t, err)
	return o
}

func TestCreateOrderDefaults(t *testing.T) {
	f := newFixture(t)

	o, err := f.orders.Create(f.ctx, f.alice, services.CreateOrderInput{TotalAmount: amount("19.99")})
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, f.alice.ID, o.CustomerID)
	assert.Equal(t, models.StatusNew, o.Status)
	assert.Equal(t, models.DateOnly(time.Now()), o.OrderDate)
	assert.False(t, o.CreatedAt.IsZero())
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("19.99")))

	stored, err := f.orders.Get(f.ctx, f.alice, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(o.TotalAmount))
	assert.Equal(t, o.OrderDate.Format(models.DateLayout), stored.OrderDate.Format(models.DateLayout))
}

func TestCreateOrderHonoursSuppliedFields(t *testing.T) {
	f := newFixture(t)

	o, err := f.orders.Create(f.ctx, f.alice, services.CreateOrderInput{
		OrderDate:   ptr("2024-03-15"),
		TotalAmount: amount("250"),
		Status:      ptr("in_progress"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, o.Status)
	assert.Equal(t, "2024-03-15", o.OrderDate.Format(models.DateLayout))
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)

	for _, in := range []services.CreateOrderInput{
		{},
		{TotalAmount: amount("0")},
		{TotalAmount: amount("-5")},
		{TotalAmount: amount("1.005")},
		{TotalAmount: amount("10"), OrderDate: ptr("15/03/2024")},
		{TotalAmount: amount("10"), Status: ptr("SHIPPED")},
	} {
		_, err := f.orders.Create(f.ctx, f.alice, in)
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	}

	_, p, err := f.orders.List(f.ctx, f.admin, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, p.Total)
}

func TestUserCannotChooseOwner(t *testing.T) {
	f := newFixture(t)

	o, err := f.orders.Create(f.ctx, f.alice, services.CreateOrderInput{
		CustomerID:  ptr(f.bob.ID),
		TotalAmount: amount("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, o.CustomerID)
}

func TestAdminChoosesOwner(t *testing.T) {
	f := newFixture(t)

	o, err := f.orders.Create(f.ctx, f.admin, services.CreateOrderInput{CustomerID: ptr(f.bob.ID), TotalAmount: amount("10")})
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, o.CustomerID)

	o, err = f.orders.Create(f.ctx, f.admin, services.CreateOrderInput{TotalAmount: amount("10")})
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, o.CustomerID)

	_, err = f.orders.Create(f.ctx, f.admin, services.CreateOrderInput{CustomerID: ptr("missing"), TotalAmount: amount("10")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNonOwnerIsDenied(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.alice, "42")

	_, err := f.orders.Get(f.ctx, f.bob, o.ID)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	_, err = f.orders.Update(f.ctx, f.bob, o.ID, services.UpdateOrderInput{TotalAmount: amount("1")})
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	err = f.orders.Delete(f.ctx, f.bob, o.ID)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	stored, err := f.orders.Get(f.ctx, f.alice, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(42)))

	_, err = f.orders.Get(f.ctx, f.admin, o.ID)
	assert.NoError(t, err)
}

func TestMissingOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Get(f.ctx, f.admin, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, f.orders.Delete(f.ctx, f.admin, "nope"), apperr.ErrNotFound)
}

func TestUpdateIsPartial(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.alice, "10")

	updated, err := f.orders.Update(f.ctx, f.alice, o.ID, services.UpdateOrderInput{TotalAmount: amount("12.50")})
	require.NoError(t, err)

	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, models.StatusNew, updated.Status)
	assert.Equal(t, o.CustomerID, updated.CustomerID)
	assert.Equal(t, o.OrderDate.Format(models.DateLayout), updated.OrderDate.Format(models.DateLayout))
}

func TestFailedUpdateLeavesOrderUnchanged(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.alice, "10")

	for _, in := range []services.UpdateOrderInput{
		{TotalAmount: amount("0"), Status: ptr("IN_PROGRESS")},
		{TotalAmount: amount("-1")},
		{TotalAmount: amount("99"), Status: ptr("NEW")},
		{OrderDate: ptr("2024-01-01"), Status: ptr("bogus")},
	} {
		_, err := f.orders.Update(f.ctx, f.alice, o.ID, in)
		assert.Error(t, err)
	}

	stored, err := f.orders.Get(f.ctx, f.alice, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.Equal(t, o.OrderDate.Format(models.DateLayout), stored.OrderDate.Format(models.DateLayout))
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)

	a := f.order(t, f.alice, "10")
	_, err := f.orders.Update(f.ctx, f.alice, a.ID, services.UpdateOrderInput{Status: ptr("NEW")})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	moved, err := f.orders.Update(f.ctx, f.alice, a.ID, services.UpdateOrderInput{Status: ptr("IN_PROGRESS")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, moved.Status)

	b := f.order(t, f.alice, "10")
	done, err := f.orders.Update(f.ctx, f.alice, b.ID, services.UpdateOrderInput{Status: ptr("COMPLETED")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
}

func TestOrderEvents(t *testing.T) {
	t.Cleanup(event.Flush)
	f := newFixture(t)

	var seen []string
	var from models.Status
	for _, name := range []string{services.EventOrderCreated, services.EventOrderUpdated, services.EventOrderStatusChanged, services.EventOrderDeleted} {
		name := name
		event.Listen(name, func(_ context.Context, payload interface{}) {
			seen = append(seen, name)
			if name == services.EventOrderStatusChanged {
				from = payload.(services.OrderEvent).From
			}
		})
	}

	o := f.order(t, f.alice, "10")
	_, err := f.orders.Update(f.ctx, f.alice, o.ID, services.UpdateOrderInput{Status: ptr("COMPLETED")})
	require.NoError(t, err)
	require.NoError(t, f.orders.Delete(f.ctx, f.alice, o.ID))

	assert.Equal(t, []string{"order.created", "order.updated", "order.status_changed", "order.deleted"}, seen)
	assert.Equal(t, models.StatusNew, from)
}

func TestListScopedByOwner(t *testing.T) {
	f := newFixture(t)

	mine := map[string]bool{}
	for i := 0; i < 3; i++ {
		mine[f.order(t, f.alice, "5").ID] = true
	}
	f.order(t, f.bob, "7")
	f.order(t, f.bob, "8")

	orders, p, err := f.orders.List(f.ctx, f.alice, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, p.Total)
	for _, o := range orders {
		assert.True(t, mine[o.ID])
		assert.Equal(t, f.alice.ID, o.CustomerID)
	}

	_, p, err = f.orders.List(f.ctx, f.admin, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 5, p.Total)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.order(t, f.alice, "1")
	}

	first, p, err := f.orders.List(f.ctx, f.alice, 1, 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 3, p.TotalPages)

	last, p, err := f.orders.List(f.ctx, f.alice, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)
	assert.Equal(t, 3, p.Page)

	_, p, err = f.orders.List(f.ctx, f.alice, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.Size)
}
