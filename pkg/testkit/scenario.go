package testkit

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

// Scenario is one HTTP request and its expected outcome, loaded from a JSON
// array file:
//
//	[
//	  {
//	    "name": "user cannot list customers",
//	    "as": "alice",
//	    "requestMethod": "GET",
//	    "requestUrl": "/customers",
//	    "expectedCode": 403,
//	    "expectedBody": {"message": "Access denied"}
//	  }
//	]
//
// "as" names an entry of the token map handed to RunFile; "headers" are
// applied after it. expectedBody is matched as a subset: keys absent from it
// are not compared.
type Scenario struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	As            string            `json:"as"`
	RequestMethod string            `json:"requestMethod"`
	RequestURL    string            `json:"requestUrl"`
	RequestBody   json.RawMessage   `json:"requestBody"`
	Headers       map[string]string `json:"headers"`
	ExpectedCode  int               `json:"expectedCode"`
	ExpectedBody  json.RawMessage   `json:"expectedBody"`
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = http.MethodGet
	}
	return nil
}

// LoadScenarios reads a JSON array of scenarios.
func LoadScenarios(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	for i, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %s[%d]: %w", filepath.Base(abs), i, err)
		}
	}
	return scenarios, nil
}

// RunFile runs every scenario in path against h as a subtest.
func RunFile(t *testing.T, h http.Handler, path string, tokens map[string]string) {
	t.Helper()

	scenarios, err := LoadScenarios(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			headers := make(map[string]string, len(s.Headers)+1)
			if s.As != "" {
				token, ok := tokens[s.As]
				if !ok {
					t.Fatalf("no token for %q", s.As)
				}
				headers["Authorization"] = "Bearer " + token
			}
			for k, v := range s.Headers {
				headers[k] = v
			}

			var body any
			if len(s.RequestBody) > 0 {
				body = []byte(s.RequestBody)
			}

			rec := RequestWithHeaders(t, h, strings.ToUpper(s.RequestMethod), s.RequestURL, body, headers)
			assert.Equal(t, s.ExpectedCode, rec.Code, "body: %s", rec.Body.String())
			if len(s.ExpectedBody) > 0 {
				AssertJSONSubset(t, s.ExpectedBody, rec.Body.Bytes())
			}
		})
	}
}

// AssertJSONSubset fails when actual lacks any value present in expected.
func AssertJSONSubset(t testing.TB, expected, actual []byte) bool {
	t.Helper()

	var expVal, actVal interface{}
	if err := json.Unmarshal(expected, &expVal); err != nil {
		t.Errorf("expected body is not valid JSON: %v", err)
		return false
	}
	if err := json.Unmarshal(actual, &actVal); err != nil {
		t.Errorf("actual body is not valid JSON: %v\nbody: %s", err, actual)
		return false
	}

	if diffs := DiffJSON("", expVal, actVal); len(diffs) > 0 {
		t.Errorf("response body mismatch:\n%s\nbody: %s", strings.Join(diffs, "\n"), actual)
		return false
	}
	return true
}

// DiffJSON lists the places where actual departs from expected. Object keys
// missing from expected are ignored.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
