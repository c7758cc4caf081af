// Package ctx gives handlers one value for the request and its reply:
//
//	func (c *OrderController) Show(cx *ctx.Context) {
//	    order, err := c.orders.Get(cx.Context(), principal, cx.Param("id"))
//	    if err != nil {
//	        cx.Fail(err)
//	        return
//	    }
//	    cx.Success(order)
//	}
//
//	router.Get("/orders/{id}", "orders.show", ctx.Wrap(c.Show))
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/bind"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
	"github.com/shashiranjanraj/ordermgmt/pkg/response"
)

type HandlerFunc func(c *Context)

func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(&Context{W: w, R: r})
	}
}

type Context struct {
	W http.ResponseWriter
	R *http.Request

	status int
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Param reads a chi path parameter.
func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

func (c *Context) Query(key string) string { return c.R.URL.Query().Get(key) }

// QueryInt returns def when key is absent or not an integer.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return def
	}
	return n
}

// Page reads ?page= and ?size=. Out-of-range values are clamped later by
// orm.Paginate.
func (c *Context) Page() (page, size int) {
	return c.QueryInt("page", 1), c.QueryInt("size", orm.DefaultPageSize)
}

// BindJSON decodes and validates the body into dest. On failure it has
// already replied 400, with field errors when validation failed, and
// returns false.
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

func (c *Context) Success(data any) {
	c.status = http.StatusOK
	response.Success(c.W, data)
}

func (c *Context) SuccessMessage(message string, data any) {
	c.status = http.StatusOK
	response.SuccessMessage(c.W, message, data)
}

func (c *Context) Created(data any) {
	c.status = http.StatusCreated
	response.Created(c.W, data)
}

// CreatedAt is Created with a Location header. An empty location is omitted.
func (c *Context) CreatedAt(location string, data any) {
	if location != "" {
		c.W.Header().Set("Location", location)
	}
	c.Created(data)
}

func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	response.NoContent(c.W)
}

func (c *Context) Paginated(items any, p orm.Pagination) {
	c.status = http.StatusOK
	response.Paginated(c.W, items, p)
}

// Fail replies with the status matching err's kind. Internal errors are
// logged and masked.
func (c *Context) Fail(err error) {
	c.status = response.Status(apperr.KindOf(err))
	response.FromError(c.W, c.R, err)
}

// Written is the status sent so far, or 0.
func (c *Context) Written() int { return c.status }
