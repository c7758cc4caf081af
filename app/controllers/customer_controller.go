package controllers

import (
	"github.com/shashiranjanraj/ordermgmt/app/resources"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/ctx"
	"github.com/shashiranjanraj/ordermgmt/pkg/resource"
)

// CustomerController serves the admin-only customer directory. rbac.Admin
// on the route group rejects non-admin tokens early; the service checks the
// stored role of the resolved caller.
type CustomerController struct {
	customers *services.CustomerService
	policy    *services.AccessPolicy
	links     Links
}

func NewCustomerController(customers *services.CustomerService, policy *services.AccessPolicy, links Links) *CustomerController {
	return &CustomerController{customers: customers, policy: policy, links: links}
}

func (c *CustomerController) Index(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	page, size := cx.Page()
	items, pg, err := c.customers.List(cx.Context(), p, page, size)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Paginated(resource.Collection(resources.Customer, items), pg)
}

func (c *CustomerController) Show(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	customer, err := c.customers.Get(cx.Context(), p, cx.Param("id"))
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(resources.Customer(customer))
}

func (c *CustomerController) Store(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	var in services.CreateCustomerInput
	if !cx.BindJSON(&in) {
		return
	}

	customer, err := c.customers.Create(cx.Context(), p, in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.CreatedAt(location(cx, c.links, "customers.show", customer.ID), resources.Customer(customer))
}

func (c *CustomerController) Update(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	var in services.UpdateCustomerInput
	if !cx.BindJSON(&in) {
		return
	}

	customer, err := c.customers.Update(cx.Context(), p, cx.Param("id"), in)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(resources.Customer(customer))
}

func (c *CustomerController) Destroy(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	if err := c.customers.Delete(cx.Context(), p, cx.Param("id")); err != nil {
		cx.Fail(err)
		return
	}
	cx.NoContent()
}
