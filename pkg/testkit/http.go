package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the JSON body written by pkg/response.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Request fires method target against h. body is JSON-encoded unless it is
// nil, a string or a []byte. A non-empty token is sent as a bearer token.
func Request(t testing.TB, h http.Handler, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}
	return RequestWithHeaders(t, h, method, target, body, headers)
}

// RequestWithHeaders is Request with arbitrary extra headers.
func RequestWithHeaders(t testing.TB, h http.Handler, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode parses the response envelope.
func Decode(t testing.TB, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

// DecodeData parses the envelope's data field into dest.
func DecodeData(t testing.TB, rec *httptest.ResponseRecorder, dest any) Envelope {
	t.Helper()
	env := Decode(t, rec)
	require.NotEmpty(t, env.Data, "response has no data: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dest))
	return env
}
