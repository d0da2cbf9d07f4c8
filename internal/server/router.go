package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const probeTimeout = 5 * time.Second

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Prober ConnectionProber
}

// NewRouter wires the HTTP routes exposed by the validation service.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	h := &handlers{logger: logger, prober: deps.Prober}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	mux.HandleFunc("/validate/source", h.handleValidateSource)
	mux.HandleFunc("/validate/sink", h.handleValidateSink)
	if deps.Prober != nil {
		mux.HandleFunc("/connectivity", h.handleConnectivity)
	}

	return loggingMiddleware(logger, mux)
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func withProbeTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), probeTimeout)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
