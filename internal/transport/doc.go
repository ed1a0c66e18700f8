// Package transport provides the HTTP transport layer of the coffee shop API.
//
// # Architecture
//
// The transport package connects the drinks handlers to the token validator
// and the persistence gateway. Public constructors live here; the
// implementations are in internal subpackages.
//
// Package structure:
//
//	internal/transport/
//	├── transport.go              # Public interfaces
//	├── errors.go                 # Transport errors
//	├── context.go                # Context keys and helpers
//	├── wire.go                   # Factory functions and routes
//	├── transportcore/            # Shared types, breaks import cycles
//	└── internal/
//	    ├── http/
//	    │   ├── server.go         # HTTP server with graceful shutdown
//	    │   ├── router.go         # ServeMux routing with 404/405 envelopes
//	    │   └── response.go       # Error envelope and WWW-Authenticate
//	    ├── middleware/
//	    │   ├── auth.go           # Bearer token and permission guard
//	    │   ├── request_id.go     # X-Request-ID assignment
//	    │   ├── logging.go        # Request logging
//	    │   └── recovery.go       # Panic recovery
//	    └── handlers/
//	        ├── drinks.go         # Drinks CRUD
//	        └── health.go         # Health check endpoint
//
// # Middleware Chain
//
// Global middleware runs in this order:
//
//  1. Request ID - assigns or propagates X-Request-ID
//  2. Logging - logs request details
//  3. Recovery - catches panics and answers with the 500 envelope
//
// Guarded routes then run the permission guard, which extracts the bearer
// token, validates it and checks the permissions claim.
//
// # Error Handling
//
// Handlers return errors instead of writing them. Every failure, including
// unknown routes and recovered panics, is written by the ErrorResponder as:
//
//	HTTP/1.1 404 Not Found
//	Content-Type: application/json
//
//	{"success": false, "error": 404, "message": "resource not found", "name": "Not Found"}
//
// Authorization failures keep their code as the name and add a challenge:
//
//	HTTP/1.1 401 Unauthorized
//	WWW-Authenticate: Bearer realm="coffee-shop", error="invalid_token", error_description="Token expired."
//	Content-Type: application/json
//
//	{"success": false, "error": 401, "message": "Token expired.", "name": "token_expired"}
//
// # Endpoints
//
// Public endpoints:
//   - GET /drinks - drinks with ingredient names redacted
//   - GET /health - store reachability
//
// Guarded endpoints (permission in parentheses):
//   - GET /drinks-detail (get:drinks-detail)
//   - POST /drinks (post:drinks)
//   - PATCH /drinks/{id} (patch:drinks)
//   - DELETE /drinks/{id} (delete:drinks)
//
// # Usage Example
//
//	server, _, err := transport.NewTransportServices(&transport.Config{
//		ServerConfig: cfg,
//		Validator:    validator,
//		Permissions:  checker,
//		Repository:   repo,
//		Logger:       logger,
//	})
//	if err != nil {
//		return err
//	}
//
//	go server.Start()
//	defer server.Shutdown(context.Background())
package transport
