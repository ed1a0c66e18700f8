package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Machine-readable authorization error codes returned in the error envelope.
const (
	// CodeAuthorizationHeaderMissing indicates no Authorization header was sent.
	CodeAuthorizationHeaderMissing = "authorization_header_missing"

	// CodeInvalidHeader indicates a malformed header, token or signing key.
	CodeInvalidHeader = "invalid_header"

	// CodeTokenExpired indicates the token is past its expiry.
	CodeTokenExpired = "token_expired"

	// CodeInvalidClaims indicates the token claims are wrong or incomplete.
	CodeInvalidClaims = "invalid_claims"

	// CodeUnauthorized indicates the token lacks the required permission.
	CodeUnauthorized = "unauthorized"
)

// RFC 6750 error codes used in WWW-Authenticate challenges.
const (
	bearerErrorInvalidToken      = "invalid_token"
	bearerErrorInsufficientScope = "insufficient_scope"
)

// AuthError is an authentication or authorization failure. It carries the
// HTTP status to answer with and a code/description pair safe to return to
// the client. The optional cause is for logs only.
type AuthError struct {
	// Status is the HTTP status code (401 or 403).
	Status int

	// Code is the machine-readable error code (e.g., "token_expired").
	Code string

	// Description is a human-readable description of the error.
	Description string

	// Err is the underlying cause, if any.
	Err error
}

// NewAuthError creates a new AuthError.
func NewAuthError(status int, code, description string) *AuthError {
	return &AuthError{
		Status:      status,
		Code:        code,
		Description: description,
	}
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := e.Code
	if e.Description != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is maps the status onto the ErrUnauthorized and ErrForbidden sentinels.
func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}

// Wrap records the cause and returns the error for chaining.
func (e *AuthError) Wrap(err error) *AuthError {
	e.Err = err
	return e
}

// WWWAuthenticate formats the error as a WWW-Authenticate header value
// per RFC 6750. A missing header gets a bare challenge; other 401s report
// invalid_token and 403s report insufficient_scope.
//
// Example output:
//
//	Bearer realm="coffee-shop", error="invalid_token", error_description="Token expired."
func (e *AuthError) WWWAuthenticate(realm string) string {
	var parts []string

	if realm != "" {
		parts = append(parts, fmt.Sprintf(`realm="%s"`, escapeQuotes(realm)))
	}

	if e.Code != CodeAuthorizationHeaderMissing {
		bearerError := bearerErrorInvalidToken
		if e.Status == http.StatusForbidden {
			bearerError = bearerErrorInsufficientScope
		}
		parts = append(parts, fmt.Sprintf(`error="%s"`, bearerError))

		if e.Description != "" {
			parts = append(parts, fmt.Sprintf(`error_description="%s"`, escapeQuotes(e.Description)))
		}
	}

	if len(parts) == 0 {
		return "Bearer"
	}
	return "Bearer " + strings.Join(parts, ", ")
}

// escapeQuotes escapes double quotes in strings for use in header values.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
