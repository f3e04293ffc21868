// Package http provides the local control and read surface consumed by the
// overlay UI, plus the fixed token proxy contracts.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/metrics"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/session"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/token"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/ui"
)

// NewRouter constructs the HTTP router for the service.
func NewRouter(mgr *session.Manager, issuer *token.Issuer, hub *ui.Hub) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(observability.RequestLogger(metrics.DefaultMetrics))

	// Fixed token proxy contracts
	r.Get("/token", issuer.Handler())
	r.Get("/health", token.HealthHandler())

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, mgr.Snapshot())
		})

		r.Get("/transcript", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"entries": mgr.Entries()})
		})

		r.Delete("/transcript", func(w http.ResponseWriter, r *http.Request) {
			mgr.ClearTranscript()
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/session/start", func(w http.ResponseWriter, r *http.Request) {
			// The session outlives the request, so its context must not be
			// tied to it.
			id, err := mgr.Start(context.Background())
			if err != nil {
				code := http.StatusInternalServerError
				if errors.Is(err, session.ErrSessionActive) {
					code = http.StatusConflict
				}
				writeJSON(w, code, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
		})

		r.Post("/session/stop", func(w http.ResponseWriter, r *http.Request) {
			mgr.Stop()
			writeJSON(w, http.StatusOK, mgr.Snapshot())
		})

		r.Get("/subtitles", hub.Handler())
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
