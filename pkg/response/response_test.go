package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/orm"
	"github.com/shashiranjanraj/ordermgmt/pkg/response"
)

type body struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestFromErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.NotFound("order not found"), http.StatusNotFound, "order not found"},
		{apperr.Conflict("username already taken"), http.StatusConflict, "username already taken"},
		{apperr.Unauthorized("invalid credentials"), http.StatusUnauthorized, "invalid credentials"},
		{apperr.AccessDenied("not your order"), http.StatusForbidden, "not your order"},
		{apperr.InvalidArgument("total_amount must be positive"), http.StatusBadRequest, "total_amount must be positive"},
		{apperr.InvalidTransition("NEW -> NEW"), http.StatusBadRequest, "NEW -> NEW"},
		{fmt.Errorf("repo: %w", errors.New("disk on fire")), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)

		response.FromError(rec, req, tc.err)

		assert.Equal(t, tc.status, rec.Code)
		b := decode(t, rec)
		assert.Equal(t, tc.status, b.Status)
		assert.Equal(t, tc.msg, b.Message)
	}
}

func TestFromErrorIncludesFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers", nil)

	response.FromError(rec, req, apperr.Invalid(map[string]string{"email": "The email must be a valid email address."}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var b struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "The email must be a valid email address.", b.Message)
	assert.Equal(t, map[string]string{"email": "The email must be a valid email address."}, b.Errors)
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Paginated(rec, []string{"a", "b"}, orm.Pagination{Page: 1, Size: 2, Total: 5, TotalPages: 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":5`)
	assert.Contains(t, rec.Body.String(), `"total_pages":3`)
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	response.NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
