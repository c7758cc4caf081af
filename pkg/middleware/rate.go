// Package middleware provides the HTTP middleware stack of the API.
package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
	"github.com/shashiranjanraj/ordermgmt/pkg/response"
)

var rateLimited = metrics.NewCounter("ordermgmt", "http_rate_limited_total",
	"Requests rejected by the per-client rate limiter.", nil)

// window is a fixed-window request count for one client.
type window struct {
	count   int
	resetAt time.Time
}

// limiter keeps one window per client. Expired windows are swept at most
// once per window length, on the request path.
type limiter struct {
	mu        sync.Mutex
	max       int
	length    time.Duration
	clients   map[string]*window
	nextSweep time.Time
}

func (l *limiter) take(client string, now time.Time) (remaining int, retryAfter time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		for k, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, k)
			}
		}
		l.nextSweep = now.Add(l.length)
	}

	w, found := l.clients[client]
	if !found || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.length)}
		l.clients[client] = w
	}
	if w.count >= l.max {
		return 0, w.resetAt.Sub(now), false
	}
	w.count++
	return l.max - w.count, 0, true
}

// RateLimit allows each client IP max requests per window. A non-positive
// max disables limiting. Each call builds an independent limiter.
//
//	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))
func RateLimit(max int, per time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if max <= 0 {
			return next
		}
		l := &limiter{max: max, length: per, clients: map[string]*window{}}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, retry, ok := l.take(ClientIP(r), time.Now())
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				rateLimited.WithLabelValues().Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the first X-Forwarded-For hop, else the remote address
// without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
