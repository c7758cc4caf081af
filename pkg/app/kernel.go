package app

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/config"
	"github.com/shashiranjanraj/ordermgmt/pkg/cache"
	"github.com/shashiranjanraj/ordermgmt/pkg/database"
	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
	"github.com/shashiranjanraj/ordermgmt/pkg/middleware"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
	"github.com/shashiranjanraj/ordermgmt/pkg/reqid"
	"github.com/shashiranjanraj/ordermgmt/pkg/response"
	"github.com/shashiranjanraj/ordermgmt/pkg/router"
)

// Router builds the router with the global middleware stack, the
// operational endpoints and every registered route.
func (a *Application) Router(db *gorm.DB) (*router.Router, error) {
	// Wired here so neither orm nor cache imports the other.
	orm.CacheStore = cache.Store{}

	r := router.New()

	// Outermost first. Use must precede route registration.
	//  1. metrics     total latency including everything below
	//  2. recovery    panics become a 500 envelope
	//  3. request id  before anything logs
	//  4. logger      access log carrying request_id
	//  5. CORS
	//  6. rate limit  per client IP
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", healthHandler(db))

	for _, fn := range a.routeFns {
		if err := fn(r, db); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Handler is Router as an http.Handler.
func (a *Application) Handler(db *gorm.DB) (http.Handler, error) {
	r, err := a.Router(db)
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}

// healthHandler answers 200 while the database responds to a ping.
func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok", "database": "up"})
	}
}
