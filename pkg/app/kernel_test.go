package app_test

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/pkg/app"
	"github.com/shashiranjanraj/ordermgmt/pkg/reqid"
	"github.com/shashiranjanraj/ordermgmt/pkg/response"
	"github.com/shashiranjanraj/ordermgmt/pkg/router"
	"github.com/shashiranjanraj/ordermgmt/pkg/testkit"
)

func ping(r *router.Router, _ *gorm.DB) error {
	r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, "pong")
	})
	r.Get("/boom", "boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return nil
}

func TestKernelServesRoutesAndOps(t *testing.T) {
	h, err := app.New().Routes(ping).Handler(testkit.NewDB(t))
	require.NoError(t, err)

	rec := testkit.Request(t, h, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))

	rec = testkit.Request(t, h, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	testkit.AssertJSONSubset(t, []byte(`{"data":{"database":"up"}}`), rec.Body.Bytes())

	rec = testkit.Request(t, h, http.MethodGet, "/boom", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "goroutine")

	rec = testkit.Request(t, h, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ordermgmt_http_requests_total")
}

func TestHealthWithoutDatabase(t *testing.T) {
	h, err := app.New().Handler(nil)
	require.NoError(t, err)

	rec := testkit.Request(t, h, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouteErrorsPropagate(t *testing.T) {
	boom := errors.New("bad transition table")
	_, err := app.New().Routes(func(*router.Router, *gorm.DB) error { return boom }).Handler(nil)
	assert.ErrorIs(t, err, boom)
}

func TestRouteListCommand(t *testing.T) {
	root := app.New().Routes(ping).Command("ordermgmt")

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"route:list"})
	require.NoError(t, root.Execute())

	lines := out.String()
	assert.Contains(t, lines, "/health")
	assert.Contains(t, lines, "/ping")
	assert.True(t, strings.HasPrefix(lines, "METHOD"))

	for _, name := range []string{"serve", "migrate", "migrate:rollback", "migrate:status", "seed", "route:list"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
