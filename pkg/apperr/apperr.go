// Package apperr defines the application error taxonomy.
//
// Services return *Error values; pkg/response maps the Kind onto an HTTP
// status. Anything that is not an *Error is treated as an internal failure.
//
//	if order == nil {
//	    return apperr.NotFound("order not found")
//	}
package apperr

import (
	"errors"
	"fmt"
	"sort"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindAccessDenied
	KindInvalidArgument
	KindInvalidTransition
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindAccessDenied:
		return "access_denied"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidTransition:
		return "invalid_transition"
	default:
		return "internal"
	}
}

// Error is a classified error with a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	// Fields holds per-field messages for InvalidArgument errors raised by
	// request validation.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so sentinel comparisons like
// errors.Is(err, apperr.ErrNotFound) work regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrAccessDenied      = &Error{Kind: KindAccessDenied}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a classified message to an underlying cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func AccessDenied(format string, args ...any) *Error {
	return New(KindAccessDenied, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

// Invalid reports per-field validation failures. The message is the
// failure of the alphabetically first field.
func Invalid(fields map[string]string) *Error {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)

	msg := "Validation failed"
	if len(names) > 0 {
		msg = fields[names[0]]
	}
	return &Error{Kind: KindInvalidArgument, Message: msg, Fields: fields}
}

// FieldsOf returns the field failures carried by err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-safe message for err. Internal errors never
// leak their text.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "Internal Server Error"
	}
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindNotFound:
		return "Not found"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	case KindAccessDenied:
		return "Forbidden"
	case KindInvalidTransition:
		return "Invalid status transition"
	default:
		return "Invalid argument"
	}
}
