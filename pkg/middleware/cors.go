package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/ordermgmt/pkg/reqid"
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	AllowedOrigins []string // exact origins, or "*"
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int // preflight cache, seconds
}

// DefaultCORSOptions allows origins from CORS_ALLOWED_ORIGINS (see
// config.CORSOrigins) to call every API verb with a bearer token.
func DefaultCORSOptions(origins []string) CORSOptions {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSOptions{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", reqid.Header},
		ExposedHeaders: []string{reqid.Header, "Retry-After", "X-RateLimit-Remaining"},
		MaxAge:         600,
	}
}

func (o CORSOptions) allow(origin string) string {
	for _, a := range o.AllowedOrigins {
		if a == "*" {
			return "*"
		}
		if strings.EqualFold(a, origin) {
			return origin
		}
	}
	return ""
}

// CORS answers preflight requests itself and decorates every other
// response from an allowed origin.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")
	exposed := strings.Join(opts.ExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			allowed := opts.allow(origin)
			if allowed != "" {
				h.Set("Access-Control-Allow-Origin", allowed)
				if exposed != "" {
					h.Set("Access-Control-Expose-Headers", exposed)
				}
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}

			if allowed != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if opts.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				}
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
