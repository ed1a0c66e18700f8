package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// healthResponse represents the JSON response for health checks.
type healthResponse struct {
	Status string `json:"status"`
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler creates the handler for GET /health. It answers
// {"status":"ok"} while pinger is reachable and a 500 otherwise.
func NewHealthHandler(pinger Pinger) transportcore.HandlerFunc {
	if pinger == nil {
		panic("pinger cannot be nil")
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		if err := pinger.Ping(r.Context()); err != nil {
			return fmt.Errorf("health check: %w", err)
		}
		return writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
