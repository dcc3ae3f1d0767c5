package errcode

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	Internal Kind = iota
	Validation
	Authentication
	Authorization
	NotFound
	Upload
	Conflict
	RateLimited
)

// HTTPStatus returns the status code a kind is rendered with.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation, Upload:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a kind, a client-safe message and optionally the cause.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// Wrap attaches a cause to a classified error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Invalid builds a validation error from field messages.
func Invalid(fields ...FieldError) *Error {
	return &Error{Kind: Validation, Message: "Validation errors", Fields: fields}
}

func Missing(msg string) *Error         { return New(NotFound, msg) }
func Rejected(msg string) *Error        { return New(Upload, msg) }
func Unauthenticated(msg string) *Error { return New(Authentication, msg) }
func Forbidden(msg string) *Error       { return New(Authorization, msg) }

// From extracts an *Error from the chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, Internal when unclassified.
func KindOf(err error) Kind {
	if e, ok := From(err); ok {
		return e.Kind
	}
	return Internal
}
