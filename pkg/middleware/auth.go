package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/ordermgmt/pkg/auth"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
	"github.com/shashiranjanraj/ordermgmt/pkg/response"
)

type claimsKey struct{}

// Authenticate validates the bearer token and stores its claims in the
// request context. Requests without a valid token get a 401.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			logger.WithCtx(r.Context()).Debug("token rejected", "error", err.Error())
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromCtx returns the claims stored by Authenticate.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// RoleFromCtx returns the role of the authenticated caller.
func RoleFromCtx(r *http.Request) (string, bool) {
	c, ok := ClaimsFromCtx(r.Context())
	if !ok {
		return "", false
	}
	return c.Role, true
}

// UsernameFromCtx returns the username of the authenticated caller.
func UsernameFromCtx(r *http.Request) (string, bool) {
	c, ok := ClaimsFromCtx(r.Context())
	if !ok {
		return "", false
	}
	return c.Username(), true
}
