// Package httptransport is the thin presentation boundary. Handlers read
// snapshots and dispatch intents; no business logic lives here.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

// NewRouter wires all endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/login", h.handleLogin)
	r.Post("/signout", h.handleSignOut)
	r.Get("/session", h.handleSession)

	r.Get("/entries", h.handleListEntries)
	r.Post("/entries", h.handleAddEntry)
	r.Delete("/entries/{id}", h.handleDeleteEntry)
	r.Post("/entries/refresh", h.handleRefreshEntries)

	r.Get("/treasurers", h.handleListTreasurers)
	r.Post("/treasurers/select-or-create", h.handleSelectOrCreateTreasurer)

	r.Get("/summary", h.handleSummary)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// writeError centralizes application error translation so every endpoint
// shares one JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	message := "internal error"
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(code),
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
