// Package controllers adapts HTTP requests to service calls. Handlers take a
// *ctx.Context, resolve the caller, call one service method and reply.
package controllers

import (
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/ctx"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/middleware"
)

// Links builds paths from route names; *router.Router satisfies it.
type Links interface {
	URL(name string, params map[string]string) (string, error)
}

// location is the path of the named show route for id, or "" when it
// cannot be built.
func location(cx *ctx.Context, links Links, route, id string) string {
	if links == nil {
		return ""
	}
	u, err := links.URL(route, map[string]string{"id": id})
	if err != nil {
		logger.WithCtx(cx.Context()).Warn("cannot build Location", "route", route, "error", err)
		return ""
	}
	return u
}

// principal resolves the authenticated caller. On failure the error reply
// has already been sent.
func principal(cx *ctx.Context, policy *services.AccessPolicy) (services.Principal, bool) {
	claims, _ := middleware.ClaimsFromCtx(cx.Context())
	p, err := policy.Resolve(cx.Context(), claims)
	if err != nil {
		cx.Fail(err)
		return services.Principal{}, false
	}
	return p, true
}
