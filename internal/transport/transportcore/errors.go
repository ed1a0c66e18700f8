package transportcore

import (
	"errors"
)

// Sentinel errors for transport operations.
var (
	// ErrServerClosed indicates the server has been closed and cannot accept requests.
	ErrServerClosed = errors.New("server closed")
)
