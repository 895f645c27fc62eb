// Package httputil writes the module's HTTP responses.
package httputil

import (
	"encoding/json"
	"io"
	"net/http"
)

// WriteText writes a plain-text response body. An empty message writes
// the status line only — some rejection bodies are deliberately blank.
func WriteText(w http.ResponseWriter, status int, message string) {
	if message != "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(status)
	if message != "" {
		io.WriteString(w, message)
	}
}

// WriteJSON encodes v as the response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
