package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/app/routes"
	"github.com/shashiranjanraj/ordermgmt/pkg/router"
	"github.com/shashiranjanraj/ordermgmt/pkg/testkit"
)

type api struct {
	t      *testing.T
	h      http.Handler
	r      *router.Router
	db     *gorm.DB
	tokens map[string]string
	ids    map[string]string
}

func newAPI(t *testing.T) *api {
	t.Helper()

	r := router.New()
	db := testkit.NewDB(t)
	require.NoError(t, routes.RegisterAPI(r, db))

	a := &api{t: t, h: r.Handler(), r: r, db: db, tokens: map[string]string{}, ids: map[string]string{}}
	a.signup("root", "ADMIN")
	a.signup("alice", "")
	a.signup("bob", "USER")
	return a
}

func (a *api) signup(username, role string) {
	a.t.Helper()

	body := map[string]string{"username": username, "password": username + "-password"}
	if role != "" {
		body["role"] = role
	}
	rec := a.do(http.MethodPost, "/auth/register", body, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var user struct{ ID string }
	env := testkit.DecodeData(a.t, rec, &user)
	assert.Equal(a.t, "User registered successfully", env.Message)
	a.ids[username] = user.ID

	rec = a.do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": username + "-password"}, "")
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct{ Token string }
	testkit.DecodeData(a.t, rec, &login)
	require.NotEmpty(a.t, login.Token)
	a.tokens[username] = login.Token
}

func (a *api) do(method, target string, body any, as string) *httptest.ResponseRecorder {
	a.t.Helper()
	return testkit.Request(a.t, a.h, method, target, body, a.tokens[as])
}

type orderJSON struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	OrderDate   string      `json:"order_date"`
	TotalAmount json.Number `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"created_at"`
}

func TestAccessScenarios(t *testing.T) {
	a := newAPI(t)
	testkit.RunFile(t, a.h, "testdata/access.json", a.tokens)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/auth/register", map[string]string{"username": "alice", "password": "another-password"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already taken", testkit.Decode(t, rec).Message)

	// The first account still logs in with its own password.
	rec = a.do(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "alice-password"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerLifecycle(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/customers", map[string]string{"name": "Ann Lee", "email": "ann@example.com"}, "root")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		CreatedAt string `json:"created_at"`
	}
	testkit.DecodeData(t, rec, &created)
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, "/customers/"+created.ID, rec.Header().Get("Location"))

	rec = a.do(http.MethodGet, "/customers/"+created.ID, nil, "root")
	require.Equal(t, http.StatusOK, rec.Code)
	testkit.AssertJSONSubset(t, []byte(`{"data":{"id":"`+created.ID+`","name":"Ann Lee","email":"ann@example.com"}}`), rec.Body.Bytes())

	rec = a.do(http.MethodPost, "/customers", map[string]string{"name": "Other", "email": "ann@example.com"}, "root")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPut, "/customers/"+created.ID, map[string]string{"name": "Ann Park"}, "root")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	testkit.AssertJSONSubset(t, []byte(`{"data":{"name":"Ann Park","email":"ann@example.com"}}`), rec.Body.Bytes())

	rec = a.do(http.MethodGet, "/customers?size=5", nil, "root")
	require.Equal(t, http.StatusOK, rec.Code)
	testkit.AssertJSONSubset(t, []byte(`{"data":{"pagination":{"page":1,"size":5,"total":1,"total_pages":1}}}`), rec.Body.Bytes())

	rec = a.do(http.MethodDelete, "/customers/"+created.ID, nil, "root")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/customers/"+created.ID, nil, "root").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/customers/"+created.ID, nil, "root").Code)
}

func TestAdminRoutesFollowStoredAccount(t *testing.T) {
	a := newAPI(t)
	customer := map[string]string{"name": "Ann Lee", "email": "ann@example.com"}

	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/customers", nil, "root").Code)

	// The token still says ADMIN; the stored row no longer does.
	require.NoError(t, a.db.Exec("UPDATE users SET role = ? WHERE username = ?", "USER", "root").Error)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/customers", nil, "root").Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/customers", customer, "root").Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/users", nil, "root").Code)

	require.NoError(t, a.db.Exec("DELETE FROM users WHERE username = ?", "root").Error)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/customers", customer, "root").Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/users", nil, "root").Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/orders", nil, "root").Code)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/customers", nil, "alice").Code)
}

func TestUserOrdersAreForcedToOwnID(t *testing.T) {
	a := newAPI(t)

	for _, body := range []map[string]any{
		{"total_amount": "19.90"},
		{"total_amount": 5, "customer_id": a.ids["bob"]},
	} {
		rec := a.do(http.MethodPost, "/orders", body, "alice")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var o orderJSON
		testkit.DecodeData(t, rec, &o)
		assert.Equal(t, "/orders/"+o.ID, rec.Header().Get("Location"))
		assert.Equal(t, a.ids["alice"], o.CustomerID)
		assert.Equal(t, "NEW", o.Status)
		assert.Len(t, o.OrderDate, len("2006-01-02"))
	}

	rec := a.do(http.MethodGet, "/orders", nil, "bob")
	require.Equal(t, http.StatusOK, rec.Code)
	testkit.AssertJSONSubset(t, []byte(`{"data":{"items":[],"pagination":{"total":0}}}`), rec.Body.Bytes())
}

func TestAdminMayChooseOwner(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/orders", map[string]any{"total_amount": "42.50", "customer_id": a.ids["bob"], "order_date": "2024-02-29"}, "root")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o orderJSON
	testkit.DecodeData(t, rec, &o)
	assert.Equal(t, a.ids["bob"], o.CustomerID)
	assert.Equal(t, "2024-02-29", o.OrderDate)
	assert.Equal(t, "42.50", o.TotalAmount.String())

	rec = a.do(http.MethodPost, "/orders", map[string]any{"total_amount": 1, "customer_id": "3f1c6c1e-8a43-4d4c-9a55-1f0f7a3b2c10"}, "root")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderOwnershipAndTransitions(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/orders", map[string]any{"total_amount": 10}, "alice")
	require.Equal(t, http.StatusCreated, rec.Code)
	var o orderJSON
	testkit.DecodeData(t, rec, &o)
	path := "/orders/" + o.ID

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, path, nil, "bob").Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, path, map[string]any{"total_amount": 1}, "bob").Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, path, nil, "bob").Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, nil, "root").Code)

	rec = a.do(http.MethodPut, path, map[string]any{"status": "NEW"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, testkit.Decode(t, rec).Message, "cannot move order")

	rec = a.do(http.MethodPut, path, map[string]any{"total_amount": -5}, "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, path, map[string]any{"status": "in_progress", "total_amount": "12.5"}, "alice")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	testkit.DecodeData(t, rec, &o)
	assert.Equal(t, "IN_PROGRESS", o.Status)
	assert.Equal(t, "12.50", o.TotalAmount.String())

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, nil, "alice").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, nil, "alice").Code)
}

func TestOrderListScoping(t *testing.T) {
	a := newAPI(t)

	for _, who := range []string{"alice", "alice", "bob"} {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/orders", map[string]any{"total_amount": 3}, who).Code)
	}

	count := func(as string) int {
		rec := a.do(http.MethodGet, "/orders", nil, as)
		require.Equal(t, http.StatusOK, rec.Code)
		var page struct{ Items []orderJSON }
		testkit.DecodeData(t, rec, &page)
		for _, o := range page.Items {
			if as != "root" {
				assert.Equal(t, a.ids[as], o.CustomerID)
			}
		}
		return len(page.Items)
	}

	assert.Equal(t, 2, count("alice"))
	assert.Equal(t, 1, count("bob"))
	assert.Equal(t, 3, count("root"))
}

func TestGraphQLUsesCallerPermissions(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/orders", map[string]any{"total_amount": 7}, "alice").Code)
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/orders", map[string]any{"total_amount": 8}, "bob").Code)

	query := func(q, as string) map[string]any {
		rec := a.do(http.MethodPost, "/graphql", map[string]string{"query": q}, as)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	out := query(`{ orders { items { customer_id total_amount } pagination { total } } }`, "alice")
	testkit.AssertJSONSubset(t,
		[]byte(`{"data":{"orders":{"items":[{"customer_id":"`+a.ids["alice"]+`","total_amount":"7.00"}],"pagination":{"total":1}}}}`),
		mustJSON(t, out))

	out = query(`{ customers { pagination { total } } }`, "alice")
	require.Contains(t, out, "errors")
	assert.Contains(t, string(mustJSON(t, out["errors"])), "admin role required")

	out = query(`{ customers { pagination { total } } }`, "root")
	assert.NotContains(t, out, "errors")

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/graphql", map[string]string{"query": "{ me { id } }"}, "").Code)
}

func TestRouteNames(t *testing.T) {
	a := newAPI(t)

	u, err := a.r.URL("orders.show", map[string]string{"id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/abc", u)

	var paths []string
	for _, info := range a.r.Routes() {
		paths = append(paths, info.Method+" "+info.Path)
	}
	joined := strings.Join(paths, "\n")
	for _, want := range []string{"POST /auth/register", "GET /users", "DELETE /customers/{id}", "PUT /orders/{id}", "POST /graphql"} {
		assert.Contains(t, joined, want)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
