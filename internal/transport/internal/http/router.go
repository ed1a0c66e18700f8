package http

import (
	"net/http"

	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// router implements transportcore.Router using http.ServeMux.
type router struct {
	mux         *http.ServeMux
	responder   transportcore.ErrorResponder
	middlewares []transportcore.Middleware
}

// NewRouter creates a new HTTP router backed by http.ServeMux.
// Unmatched requests are answered through responder.
func NewRouter(responder transportcore.ErrorResponder) transportcore.Router {
	if responder == nil {
		panic("responder cannot be nil")
	}

	return &router{
		mux:         http.NewServeMux(),
		responder:   responder,
		middlewares: make([]transportcore.Middleware, 0),
	}
}

// Handle registers a handler for the given pattern.
// The handler is wrapped with all currently registered middleware.
func (r *router) Handle(pattern string, handler http.Handler) {
	// Apply all middleware in order
	wrapped := r.applyMiddleware(handler)
	r.mux.Handle(pattern, wrapped)
}

// HandleFunc registers an error returning handler for the given pattern.
// Returned errors go to the router's ErrorResponder.
func (r *router) HandleFunc(pattern string, handler transportcore.HandlerFunc) {
	r.Handle(pattern, r.responder.Wrap(handler))
}

// Use applies middleware to all subsequent route registrations.
// Middleware is applied in the order registered.
func (r *router) Use(middlewares ...transportcore.Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// ServeHTTP dispatches to the matching route. When nothing matches, the
// mux's own 404 or 405 decision is replayed as an error envelope.
func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if _, pattern := r.mux.Handler(req); pattern != "" {
		r.mux.ServeHTTP(w, req)
		return
	}
	r.applyMiddleware(r.responder.Wrap(r.unmatched)).ServeHTTP(w, req)
}

// unmatched asks the mux why the request did not match and returns the
// corresponding error.
func (r *router) unmatched(w http.ResponseWriter, req *http.Request) error {
	probe := &statusProbe{header: make(http.Header)}
	r.mux.ServeHTTP(probe, req)

	if probe.status == http.StatusMethodNotAllowed {
		if allow := probe.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		return ierrors.MethodNotAllowed()
	}
	return ierrors.NotFound()
}

// applyMiddleware wraps the handler with all registered middleware.
// Middleware is applied in order, so the first middleware in the list
// is the outermost layer (executes first).
func (r *router) applyMiddleware(handler http.Handler) http.Handler {
	// Apply middleware in reverse order so the first middleware
	// registered is the outermost layer
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}

// statusProbe is a response writer that records the status and headers
// and discards the body.
type statusProbe struct {
	header http.Header
	status int
}

func (p *statusProbe) Header() http.Header { return p.header }

func (p *statusProbe) Write(b []byte) (int, error) {
	if p.status == 0 {
		p.status = http.StatusOK
	}
	return len(b), nil
}

func (p *statusProbe) WriteHeader(code int) {
	if p.status == 0 {
		p.status = code
	}
}
