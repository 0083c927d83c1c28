// Provides the wrapper standardizing HTTP handlers.

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lbassi/jsondb/internal/server/dto"
	"github.com/lbassi/jsondb/internal/store"
)

// Wrap adapts a typed handler function to an http.Handler. The function
// reads path and query parameters straight off the request; every endpoint
// of this API is a GET without a body. Store sentinel errors map to 404,
// anything else to 500.
func Wrap[Out any](fn func(r *http.Request) (*Out, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		output, err := fn(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(output); err != nil {
			slog.ErrorContext(r.Context(), "Failed to encode response", "err", err)
		}
	})
}

// writeError maps a handler error to a JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	if errors.Is(err, store.ErrTableNotFound) || errors.Is(err, store.ErrDocumentNotFound) {
		statusCode = http.StatusNotFound
	}
	if statusCode == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Handler error", "err", err, "path", r.URL.Path)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(dto.ErrorResponse{Error: err.Error()}); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode error response", "err", err)
	}
}
