package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	pkgoauth "github.com/jamesprial/coffee-shop/pkg/oauth"
)

// writeJSON encodes v before touching w so an encoding failure can still be
// answered with the error envelope.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	w.Header().Set(pkgoauth.HeaderContentType, pkgoauth.ContentTypeJSON)
	w.WriteHeader(status)
	// The status line is already sent, so a failed write has no remedy.
	_, _ = w.Write(buf.Bytes())
	return nil
}
