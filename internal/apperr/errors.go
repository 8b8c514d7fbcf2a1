package apperr

import (
	"errors"
	"net/http"
)

// Kind is the machine-checkable error category. Handlers map kinds to
// HTTP status codes in one place; callers use As/Is.
type Kind string

const (
	Unauthenticated Kind = "unauthenticated"
	Unauthorized    Kind = "unauthorized"
	NotFound        Kind = "not_found"
	InvalidArgument Kind = "invalid_argument"
	Conflict        Kind = "conflict"
	Internal        Kind = "internal"
)

// FieldError is one field-level validation failure. A single submission
// may produce several.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Invalid builds an InvalidArgument error carrying every field failure
// from one submission.
func Invalid(msg string, fields []FieldError) *Error {
	return &Error{Kind: InvalidArgument, Message: msg, Fields: fields}
}

// KindOf extracts the kind from any error chain; unknown errors are
// Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Status maps an error kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidArgument:
		return http.StatusUnprocessableEntity
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
