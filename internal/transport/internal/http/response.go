package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
	"github.com/jamesprial/coffee-shop/internal/logging"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
	"github.com/jamesprial/coffee-shop/pkg/oauth"
)

// errorResponse is the JSON envelope every failure is reported with.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// errorResponder implements transportcore.ErrorResponder.
type errorResponder struct {
	realm  string
	logger *slog.Logger
}

// NewErrorResponder creates a new error responder. The realm is advertised
// in WWW-Authenticate challenges. If logger is nil, it uses the default
// slog logger.
func NewErrorResponder(realm string, logger *slog.Logger) transportcore.ErrorResponder {
	if logger == nil {
		logger = slog.Default()
	}
	return &errorResponder{
		realm:  realm,
		logger: logger,
	}
}

// Respond writes the error envelope for err.
//
// Authorization errors keep their status and code and add a
// WWW-Authenticate challenge per RFC 6750. HTTP errors are written as is.
// Domain errors are mapped by kind. Anything else is a 500.
func (e *errorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	resp := e.envelope(w, err)

	logger := logging.WithContext(r.Context(), e.logger)
	attrs := []any{
		slog.Int("status", resp.Error),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	}
	if resp.Error >= http.StatusInternalServerError || resp.Error == http.StatusUnprocessableEntity {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	w.Header().Set(oauth.HeaderContentType, oauth.ContentTypeJSON)
	w.WriteHeader(resp.Error)
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		logger.Error("failed to encode error response", "error", encodeErr)
	}
}

// envelope builds the response body for err and sets any error specific
// headers on w.
func (e *errorResponder) envelope(w http.ResponseWriter, err error) errorResponse {
	var authErr *ierrors.AuthError
	if errors.As(err, &authErr) {
		w.Header().Set(oauth.HeaderWWWAuthenticate, authErr.WWWAuthenticate(e.realm))
		return errorResponse{
			Error:   authErr.Status,
			Message: authErr.Description,
			Name:    authErr.Code,
		}
	}

	var httpErr *ierrors.HTTPError
	if !errors.As(err, &httpErr) {
		mapped, ok := ierrors.FromDomain(err)
		if !ok {
			mapped = ierrors.Internal()
		}
		httpErr = mapped
	}

	return errorResponse{
		Error:   httpErr.Code,
		Message: httpErr.Description,
		Name:    httpErr.Name,
	}
}

// Wrap adapts handler to http.Handler, sending any returned error to Respond.
func (e *errorResponder) Wrap(handler transportcore.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			e.Respond(w, r, err)
		}
	})
}
