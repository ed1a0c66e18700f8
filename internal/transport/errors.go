package transport

import (
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// Re-export errors from transportcore.
var (
	// ErrServerClosed indicates the server has been closed and cannot accept requests.
	ErrServerClosed = transportcore.ErrServerClosed
)
