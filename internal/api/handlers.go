// Package api serves the scheduler's health and run status over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/maltedev/fba-price-sync/internal/scheduler"
)

// StatusSource is satisfied by *scheduler.Scheduler.
type StatusSource interface {
	Status() scheduler.Status
}

type Handlers struct {
	status StatusSource
	logger *slog.Logger
}

func NewHandlers(status StatusSource, logger *slog.Logger) *Handlers {
	return &Handlers{
		status: status,
		logger: logger.With("component", "api"),
	}
}

// NewRouter wires the handlers into a chi router.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
	})

	return r
}

// HealthResponse reports whether the last run succeeded.
type HealthResponse struct {
	Status    string     `json:"status"`
	Message   string     `json:"message,omitempty"`
	Runs      int        `json:"runs"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

func (h *Handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.status.Status()

	resp := HealthResponse{
		Status:    "ok",
		Runs:      status.Runs,
		NextRunAt: status.NextRunAt,
	}
	if status.LastError != "" {
		resp.Status = "warning"
		resp.Message = "last run failed: " + status.LastError
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.status.Status())
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
