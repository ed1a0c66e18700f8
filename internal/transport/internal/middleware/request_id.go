package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jamesprial/coffee-shop/internal/logging"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
	pkgoauth "github.com/jamesprial/coffee-shop/pkg/oauth"
)

// maxRequestIDLength bounds client supplied request IDs.
const maxRequestIDLength = 128

// NewRequestIDMiddleware creates middleware that tags every request with an
// ID. A well-formed incoming X-Request-ID is kept; otherwise a random UUID
// is generated. The ID is echoed in the response header and stored in the
// request context for logging.
func NewRequestIDMiddleware() transportcore.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(pkgoauth.HeaderRequestID))
			if !validRequestID(id) {
				id = uuid.NewString()
			}

			w.Header().Set(pkgoauth.HeaderRequestID, id)
			ctx := logging.ContextWithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validRequestID accepts short IDs of printable ASCII without spaces.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
