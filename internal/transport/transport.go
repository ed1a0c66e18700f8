package transport

import (
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// Re-export types from transportcore.
// This allows external packages to import transport without creating cycles.

// Middleware is a function that wraps an http.Handler.
type Middleware = transportcore.Middleware

// HandlerFunc is a request handler that reports failure by returning an error.
type HandlerFunc = transportcore.HandlerFunc

// Server manages the HTTP server lifecycle.
// Implementations must support graceful shutdown and provide
// access to the bound address after startup.
type Server = transportcore.Server

// Router handles HTTP request routing and middleware composition.
type Router = transportcore.Router

// AuthMiddleware guards routes with bearer token authorization.
type AuthMiddleware = transportcore.AuthMiddleware

// ErrorResponder is the single place failure responses are built.
type ErrorResponder = transportcore.ErrorResponder
