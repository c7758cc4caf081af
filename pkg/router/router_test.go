package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupMiddlewareAndMethods(t *testing.T) {
	r := router.New()
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Group", "api")
			next.ServeHTTP(w, req)
		})
	}

	api := r.Group("/api", tag)
	api.Put("/orders/{id}", "orders.update", ok)
	api.Delete("/orders/{id}", "orders.destroy", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "api", rec.Header().Get("X-Group"))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/7", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNamedURL(t *testing.T) {
	r := router.New()
	r.Get("/customers/{id}", "customers.show", ok)

	url, err := r.URL("customers.show", map[string]string{"id": "c-1"})
	require.NoError(t, err)
	assert.Equal(t, "/customers/c-1", url)

	_, err = r.URL("customers.show", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := router.New()
	r.Post("/orders", "orders.store", ok)
	r.Get("/orders", "orders.index", ok)
	r.HandleFunc("/metrics", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: "*", Path: "/metrics"}, routes[0])
	assert.Equal(t, "GET", routes[1].Method)
	assert.Equal(t, "orders.store", routes[2].Name)
}
