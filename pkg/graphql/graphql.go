// Package graphql serves a graphql-go schema over HTTP.
//
//	schema, _ := graphql.NewSchema(query)
//	r.Post("/graphql", "graphql", graphql.Handler(schema))
//
// Requests are POSTed as {"query": ..., "variables": ..., "operationName": ...}
// or sent as GET with ?query=. Results use the standard {data, errors} body.
package graphql

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
)

// NewSchema creates a read-only schema from a root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the body of a GraphQL call.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes requests against schema with the request's context, so
// resolvers see whatever the middleware chain stored there.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		switch r.Method {
		case http.MethodGet:
			req.Query = r.URL.Query().Get("query")
			req.OperationName = r.URL.Query().Get("operationName")
		default:
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeErrors(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
		}
		if req.Query == "" {
			writeErrors(w, http.StatusBadRequest, "query is required")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithCtx(r.Context()).Error("graphql: encode result", "error", err)
		}
	}
}

// SafeError converts a service error into one whose message is fit for
// clients. Internal failures are logged by the caller and masked here.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(apperr.Message(err))
}

func writeErrors(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]string{{"message": message}},
	})
}
