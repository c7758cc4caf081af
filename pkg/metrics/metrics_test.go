package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.RequestTotal.WithLabelValues(http.MethodGet, "/orders/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Positive(t, testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	metrics.NewCounter("ordermgmt", "metrics_test_total", "test counter", nil).WithLabelValues().Inc()

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ordermgmt_metrics_test_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
