package services

import (
	"context"

	"github.com/shashiranjanraj/ordermgmt/app/models"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/auth"
)

// Principal is the authenticated caller on whose behalf a service acts.
type Principal struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// UserLookup is the slice of the user store the policy needs.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// AccessPolicy turns token claims into a Principal and decides ownership.
type AccessPolicy struct {
	users UserLookup
}

func NewAccessPolicy(users UserLookup) *AccessPolicy {
	return &AccessPolicy{users: users}
}

// Resolve loads the user named by claims. The stored role wins over the
// role claim, so a demoted admin loses access with their next request.
func (p *AccessPolicy) Resolve(ctx context.Context, claims *auth.Claims) (Principal, error) {
	if claims == nil || claims.Username() == "" {
		return Principal{}, apperr.Unauthorized("authentication required")
	}

	user, err := p.users.FindByUsername(ctx, claims.Username())
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return Principal{}, apperr.Wrap(apperr.KindUnauthorized, err, "user no longer exists")
		}
		return Principal{}, err
	}

	return Principal{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Authorize allows admins everything and users only what they own.
func Authorize(principal Principal, ownerID string) error {
	if principal.IsAdmin() || (principal.ID != "" && principal.ID == ownerID) {
		return nil
	}
	return apperr.AccessDenied("you do not have access to this resource")
}

// RequireAdmin fails with AccessDenied for non-admins.
func RequireAdmin(principal Principal) error {
	if principal.IsAdmin() {
		return nil
	}
	return apperr.AccessDenied("admin role required")
}
