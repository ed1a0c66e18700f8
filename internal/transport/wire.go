package transport

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jamesprial/coffee-shop/internal/config"
	"github.com/jamesprial/coffee-shop/internal/logging"
	"github.com/jamesprial/coffee-shop/internal/oauth"
	"github.com/jamesprial/coffee-shop/internal/storage"
	"github.com/jamesprial/coffee-shop/internal/transport/internal/handlers"
	transporthttp "github.com/jamesprial/coffee-shop/internal/transport/internal/http"
	"github.com/jamesprial/coffee-shop/internal/transport/internal/middleware"
	pkgoauth "github.com/jamesprial/coffee-shop/pkg/oauth"
)

// Realm is advertised in WWW-Authenticate challenges.
const Realm = "coffee-shop"

// NewServer creates a configured HTTP server.
// The server is configured with timeouts from the config and uses the provided router.
func NewServer(cfg *config.Config, router Router) Server {
	return transporthttp.NewServer(cfg, router)
}

// NewErrorResponder creates the error responder that builds every failure
// response. If logger is nil, it uses the default slog logger.
func NewErrorResponder(logger *slog.Logger) ErrorResponder {
	return transporthttp.NewErrorResponder(Realm, logger)
}

// NewRouter creates a new HTTP router backed by http.ServeMux.
// Unmatched requests are answered through responder.
func NewRouter(responder ErrorResponder) Router {
	return transporthttp.NewRouter(responder)
}

// NewAuthMiddleware creates the permission guard.
func NewAuthMiddleware(
	validator oauth.TokenValidator,
	checker oauth.PermissionChecker,
	responder ErrorResponder,
) AuthMiddleware {
	return middleware.NewAuthMiddleware(validator, checker, responder)
}

// NewLoggingMiddleware creates request logging middleware.
// If logger is nil, it uses the default slog logger.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return middleware.NewLoggingMiddleware(logger)
}

// NewRecoveryMiddleware creates panic recovery middleware.
// It recovers from panics and answers with the 500 envelope.
// If logger is nil, it uses the default slog logger.
func NewRecoveryMiddleware(responder ErrorResponder, logger *slog.Logger) Middleware {
	return middleware.NewRecoveryMiddleware(responder, logger)
}

// NewRequestIDMiddleware creates middleware that assigns request IDs.
func NewRequestIDMiddleware() Middleware {
	return middleware.NewRequestIDMiddleware()
}

// NewHealthHandler creates the health check handler backed by pinger.
func NewHealthHandler(pinger handlers.Pinger, responder ErrorResponder) http.Handler {
	return responder.Wrap(handlers.NewHealthHandler(pinger))
}

// Config holds the configuration needed for the transport layer.
type Config struct {
	// ServerConfig is the server configuration.
	ServerConfig *config.Config

	// Validator validates bearer access tokens.
	Validator oauth.TokenValidator

	// Permissions checks the permissions claim of validated tokens.
	Permissions oauth.PermissionChecker

	// Repository persists drinks.
	Repository storage.Repository

	// Logger is the base logger. Nil means slog.Default().
	Logger *slog.Logger
}

// NewTransportServices creates all transport layer services from the configuration.
// This is a convenience function for dependency injection that wires up the complete
// HTTP transport layer with routing, middleware, and handlers.
func NewTransportServices(cfg *Config) (Server, Router, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.ServerConfig == nil {
		return nil, nil, fmt.Errorf("server config cannot be nil")
	}
	if cfg.Validator == nil {
		return nil, nil, fmt.Errorf("token validator cannot be nil")
	}
	if cfg.Permissions == nil {
		return nil, nil, fmt.Errorf("permission checker cannot be nil")
	}
	if cfg.Repository == nil {
		return nil, nil, fmt.Errorf("repository cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpLogger := logging.WithComponent(logger, "http")

	responder := NewErrorResponder(httpLogger)
	auth := NewAuthMiddleware(cfg.Validator, cfg.Permissions, responder)
	drinks := handlers.NewDrinksHandler(cfg.Repository, logging.WithComponent(logger, "drinks"))

	router := NewRouter(responder)

	// Request IDs come first so every later log line carries one; recovery
	// sits inside logging so a recovered panic is logged as a 500.
	router.Use(
		NewRequestIDMiddleware(),
		NewLoggingMiddleware(httpLogger),
		NewRecoveryMiddleware(responder, httpLogger),
	)

	// Public endpoints
	router.HandleFunc("GET /drinks", drinks.List)
	router.Handle("GET /health", NewHealthHandler(cfg.Repository, responder))

	// Guarded endpoints
	guard := func(permission string, handler HandlerFunc) http.Handler {
		return auth.RequirePermission(permission)(responder.Wrap(handler))
	}
	router.Handle("GET /drinks-detail", guard(pkgoauth.PermissionGetDrinksDetail, drinks.ListDetail))
	router.Handle("POST /drinks", guard(pkgoauth.PermissionPostDrinks, drinks.Create))
	router.Handle("PATCH /drinks/{id}", guard(pkgoauth.PermissionPatchDrinks, drinks.Update))
	router.Handle("DELETE /drinks/{id}", guard(pkgoauth.PermissionDeleteDrinks, drinks.Delete))

	server := NewServer(cfg.ServerConfig, router)

	return server, router, nil
}
