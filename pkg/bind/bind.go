// Package bind decodes and validates an HTTP request body into a struct.
//
// Every failure is an apperr InvalidArgument, so handlers answer it through
// response.FromError like any service error: 400, with per-field messages
// under "errors" when validation rejected the body.
package bind

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/shashiranjanraj/ordermgmt/config"
	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/validate"
)

// JSON reads one JSON document from r.Body into dest and runs the struct-tag
// rules. The body is capped at config.MaxBodyBytes.
func JSON(r *http.Request, dest interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return apperr.InvalidArgument("request body is empty")
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.InvalidArgument("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return apperr.InvalidArgument("request body is empty")
		}
		return apperr.Wrap(apperr.KindInvalidArgument, err, "request body is not valid JSON")
	}

	return Check(dest)
}

// Check runs the struct-tag rules on v. Services call it on inputs that did
// not come through JSON.
func Check(v interface{}) error {
	if errs := validate.Struct(v); validate.HasErrors(errs) {
		return apperr.Invalid(errs)
	}
	return nil
}
