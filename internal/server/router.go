// Package server exposes the document browsing core over a JSON HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/lbassi/jsondb/internal/server/ratelimit"
)

// NewRouter wires the API routes around a default database selector. Every
// endpoint accepts an optional db query parameter overriding the default.
func NewRouter(defaultDB, version string, limiter *ratelimit.Limiter) http.Handler {
	s := NewServer(defaultDB, version)
	mux := &http.ServeMux{}

	mux.Handle("GET /api/health", Wrap(s.Health))
	mux.Handle("GET /api/tables", Wrap(s.Tables))
	mux.Handle("GET /api/table/{table}", Wrap(s.Table))
	mux.Handle("GET /api/table/{table}/doc/{id}", Wrap(s.Document))
	mux.Handle("GET /api/browse/{path...}", Wrap(s.Browse))
	mux.Handle("GET /api/schemas", Wrap(s.Schemas))

	if limiter == nil {
		limiter = ratelimit.NewLimiter(600, time.Minute, 30)
	}
	return ratelimit.Middleware(limiter)(mux)
}
