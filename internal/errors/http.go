package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is an HTTP-style exception: a status code, its canonical name
// and a client-facing description.
type HTTPError struct {
	// Code is the HTTP status code.
	Code int

	// Name is the canonical status text (e.g., "Not Found").
	Name string

	// Description is the message returned to the client.
	Description string
}

// defaultDescriptions holds the client-facing messages used when a caller
// does not provide one.
var defaultDescriptions = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

// NewHTTPError creates an HTTPError. An empty description falls back to the
// default message for the status code.
func NewHTTPError(code int, description string) *HTTPError {
	if description == "" {
		description = defaultDescriptions[code]
	}
	return &HTTPError{
		Code:        code,
		Name:        http.StatusText(code),
		Description: description,
	}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, e.Name, e.Description)
}

// BadRequest returns a 400 error with the given description.
func BadRequest(description string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, description)
}

// NotFound returns a 404 error.
func NotFound() *HTTPError {
	return NewHTTPError(http.StatusNotFound, "")
}

// MethodNotAllowed returns a 405 error.
func MethodNotAllowed() *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, "")
}

// Unprocessable returns a 422 error.
func Unprocessable() *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, "")
}

// Internal returns a 500 error.
func Internal() *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, "")
}

// FromDomain maps a DomainError kind onto its HTTP error. Only bad request
// errors expose the wrapped message; every other kind uses the default
// description so causes never leak. The second result is false when err
// carries no known kind.
func FromDomain(err error) (*HTTPError, bool) {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return nil, false
	}

	switch {
	case errors.Is(domainErr.Kind, ErrBadRequest):
		description := ""
		if domainErr.Err != nil {
			description = domainErr.Err.Error()
		}
		return BadRequest(description), true
	case errors.Is(domainErr.Kind, ErrNotFound):
		return NotFound(), true
	case errors.Is(domainErr.Kind, ErrUnprocessable):
		return Unprocessable(), true
	case errors.Is(domainErr.Kind, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ""), true
	case errors.Is(domainErr.Kind, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ""), true
	case errors.Is(domainErr.Kind, ErrInternal):
		return Internal(), true
	default:
		return nil, false
	}
}
