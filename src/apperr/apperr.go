// Package apperr provides the typed error taxonomy shared by validators,
// processors and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can translate it into the right
// client-facing response without string matching.
type Kind string

const (
	// KindNotFound indicates a referenced order, position or strategy is missing.
	KindNotFound Kind = "not_found"
	// KindNotAcceptable indicates a business-rule violation (duplicate order,
	// closed position, insufficient funds, status already set).
	KindNotAcceptable Kind = "not_acceptable"
	// KindMethodNotAllowed indicates a disallowed status transition request.
	KindMethodNotAllowed Kind = "method_not_allowed"
	// KindFatal indicates an unexpected failure during a transactional
	// mutation or during execution.
	KindFatal Kind = "fatal"
)

// E is the error envelope carried through the order pipeline.
type E struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *E) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *E) Unwrap() error { return e.cause }

// HTTPStatus maps the error kind onto the status code the API layer answers with.
func (e *E) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindNotAcceptable:
		return http.StatusNotAcceptable
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// NotFound builds a missing-resource error.
func NotFound(format string, args ...interface{}) *E {
	return &E{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NotAcceptable builds a business-rule violation error.
func NotAcceptable(format string, args ...interface{}) *E {
	return &E{Kind: KindNotAcceptable, Message: fmt.Sprintf(format, args...)}
}

// MethodNotAllowed builds a disallowed-transition error.
func MethodNotAllowed(format string, args ...interface{}) *E {
	return &E{Kind: KindMethodNotAllowed, Message: fmt.Sprintf(format, args...)}
}

// Fatal wraps an unexpected execution failure. Fatal errors are always
// logged and re-raised to the caller.
func Fatal(cause error, format string, args ...interface{}) *E {
	return &E{Kind: KindFatal, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind of err, or KindFatal when err is not an *E.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}

// IsClientFacing reports whether err should be answered to the client as a
// request rejection rather than surfaced as a process-level fault.
func IsClientFacing(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindNotAcceptable, KindMethodNotAllowed:
		return true
	}
	return false
}

// StatusOf returns the HTTP status for any error, defaulting to 500.
func StatusOf(err error) int {
	var e *E
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
