package controllers

import (
	"github.com/shashiranjanraj/ordermgmt/app/resources"
	"github.com/shashiranjanraj/ordermgmt/app/services"
	"github.com/shashiranjanraj/ordermgmt/pkg/ctx"
)

type AuthController struct {
	auth   *services.AuthService
	policy *services.AccessPolicy
}

func NewAuthController(auth *services.AuthService, policy *services.AccessPolicy) *AuthController {
	return &AuthController{auth: auth, policy: policy}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /auth/register.
func (c *AuthController) Register(cx *ctx.Context) {
	var in registerRequest
	if !cx.BindJSON(&in) {
		return
	}

	user, err := c.auth.Register(cx.Context(), in.Username, in.Password, in.Role)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.SuccessMessage("User registered successfully", resources.Registered(user))
}

// Login handles POST /auth/login.
func (c *AuthController) Login(cx *ctx.Context) {
	var in loginRequest
	if !cx.BindJSON(&in) {
		return
	}

	token, err := c.auth.Login(cx.Context(), in.Username, in.Password)
	if err != nil {
		cx.Fail(err)
		return
	}
	cx.Success(map[string]string{"token": token, "token_type": "Bearer"})
}

// Me returns the resolved caller.
func (c *AuthController) Me(cx *ctx.Context) {
	p, ok := principal(cx, c.policy)
	if !ok {
		return
	}
	cx.Success(p)
}
