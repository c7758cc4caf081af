package controllers

import (
	"github.com/shashiranjanraj/ordermgmt/app/resources"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/ctx"
	"github.com/shashiranjanraj/ordermgmt/pkg/resource"
)

type UserController struct {
	auth   *services.AuthService
	policy *services.AccessPolicy
}

func NewUserController(auth *services.AuthService, policy *services.AccessPolicy) *UserController {
	return &UserController{auth: auth, policy: policy}
}

func (c *UserController) Index(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}

	page, size := cx.Page()
	users, pg, err := c.auth.Users(cx.Context(), p, page, size)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Paginated(resource.Collection(resources.User, users), pg)
}
