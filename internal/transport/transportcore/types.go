// Package transportcore provides core types, interfaces, and primitives for the transport layer.
// This package exists to break import cycles between the transport package and its internal subpackages.
package transportcore

import (
	"context"
	"net/http"
)

// Middleware is a function that wraps an http.Handler.
// It can modify the request, response, or perform additional logic
// before or after calling the next handler in the chain.
type Middleware func(http.Handler) http.Handler

// HandlerFunc is a request handler that reports failure by returning an
// error instead of writing it. The ErrorResponder turns the error into the
// JSON error envelope.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Server manages the HTTP server lifecycle.
// Implementations must support graceful shutdown and provide
// access to the bound address after startup.
type Server interface {
	// Start begins serving HTTP requests on the configured address.
	// This is a blocking call that returns when the server stops
	// or encounters an error during startup.
	Start() error

	// Shutdown gracefully shuts down the server without interrupting
	// active connections. It waits for active connections to close
	// or the context to be cancelled/expired.
	Shutdown(ctx context.Context) error

	// Addr returns the address the server is listening on.
	// This is useful when the server is configured to bind to a random port.
	Addr() string
}

// Router handles HTTP request routing and middleware composition.
// It extends http.Handler with pattern-based routing and middleware support.
// Requests that match no route are answered with the 404 envelope, and
// requests for a known path with the wrong method with the 405 envelope.
type Router interface {
	http.Handler

	// Handle registers a handler for the given pattern.
	// The pattern syntax follows http.ServeMux conventions.
	Handle(pattern string, handler http.Handler)

	// HandleFunc registers an error returning handler for the given pattern.
	HandleFunc(pattern string, handler HandlerFunc)

	// Use applies middleware to all subsequent route registrations
	// and to the not found and method not allowed fallbacks.
	// Middleware is applied in the order registered.
	Use(middlewares ...Middleware)
}

// AuthMiddleware guards routes with bearer token authorization.
type AuthMiddleware interface {
	// RequirePermission extracts the bearer token, validates it, checks the
	// permissions claim for permission and stores the claims in the request
	// context before calling the next handler.
	//
	// Failures are answered with 401 or 403 through the ErrorResponder.
	RequirePermission(permission string) Middleware
}

// ErrorResponder is the single place failure responses are built.
type ErrorResponder interface {
	// Respond writes the JSON error envelope for err. Authorization errors
	// also set the WWW-Authenticate header. Errors of unknown type become a
	// 500 with no detail exposed.
	Respond(w http.ResponseWriter, r *http.Request, err error)

	// Wrap adapts an error returning handler to http.Handler.
	Wrap(handler HandlerFunc) http.Handler
}
