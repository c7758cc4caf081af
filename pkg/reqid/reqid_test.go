package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/ordermgmt/pkg/reqid"
)

func serve(header string) (ctxID, respID string) {
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get(reqid.Header)
}

func TestMintsUUID(t *testing.T) {
	ctxID, respID := serve("")
	assert.Equal(t, ctxID, respID)
	_, err := uuid.Parse(ctxID)
	assert.NoError(t, err)
}

func TestReusesUpstreamID(t *testing.T) {
	ctxID, respID := serve("gw-7f3a")
	assert.Equal(t, "gw-7f3a", ctxID)
	assert.Equal(t, "gw-7f3a", respID)
}

func TestRejectsMalformedUpstreamID(t *testing.T) {
	for _, bad := range []string{"has space", strings.Repeat("x", 65), "tab\there"} {
		ctxID, _ := serve(bad)
		assert.NotEqual(t, bad, ctxID)
	}
}
