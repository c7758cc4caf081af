package controllers

import (
	"github.com/shashiranjanraj/ordermgmt/app/resources"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/ctx"
	"github.com/shashiranjanraj/ordermgmt/pkg/resource"
)

// OrderController exposes order CRUD to any authenticated caller. Ownership
// is enforced by the service for every call.
type OrderController struct {
	orders *services.OrderService
	policy *services.AccessPolicy
	links  Links
}

func NewOrderController(orders *services.OrderService, policy *services.AccessPolicy, links Links) *OrderController {
	return &OrderController{orders: orders, policy: policy, links: links}
}

func (c *OrderController) Index(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	page, size := cx.Page()
	items, pg, err := c.orders.List(cx.Context(), p, page, size)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Paginated(resource.Collection(resources.Order, items), pg)
}

func (c *OrderController) Show(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	order, err := c.orders.Get(cx.Context(), p, cx.Param("id"))
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(resources.Order(order))
}

func (c *OrderController) Store(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	var in services.CreateOrderInput
	if !cx.BindJSON(&in) {
		return
	}

	order, err := c.orders.Create(cx.Context(), p, in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.CreatedAt(location(cx, c.links, "orders.show", order.ID), resources.Order(order))
}

func (c *OrderController) Update(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	var in services.UpdateOrderInput
	if !cx.BindJSON(&in) {
		return
	}

	order, err := c.orders.Update(cx.Context(), p, cx.Param("id"), in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(resources.Order(order))
}

func (c *OrderController) Destroy(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	if err := c.orders.Delete(cx.Context(), p, cx.Param("id")); err != nil {
		cx.Fail(err)
		return
	}
	cx.NoContent()
}
