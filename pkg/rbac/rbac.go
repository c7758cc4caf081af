// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/middleware"
	"github.com/shashiranjanraj/ordermgmt/pkg/response"
)

// HasRole returns middleware that allows access only to callers holding one
// of the given roles. middleware.Authenticate must run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[strings.ToUpper(role)] {
				user, _ := middleware.UsernameFromCtx(r)
				logger.WithCtx(r.Context()).Info("role check failed",
					"user", user,
					"role", role,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin allows only ADMIN callers.
func Admin(next http.Handler) http.Handler {
	return HasRole("ADMIN")(next)
}
