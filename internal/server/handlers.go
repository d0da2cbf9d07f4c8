package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
	"github.com/vanshika/neo4j-plugin/internal/sink"
	"github.com/vanshika/neo4j-plugin/internal/source"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	logger *slog.Logger
	prober ConnectionProber
}

type validationResponse struct {
	Valid    bool                         `json:"valid"`
	Failures []*plugin.ConfigurationError `json:"failures"`
}

func (h *handlers) handleValidateSource(w http.ResponseWriter, r *http.Request) {
	props, ok := h.decodeProperties(w, r)
	if !ok {
		return
	}
	collector := plugin.NewFailureCollector()
	source.FromProperties(props, collector).Collect(collector)
	respondValidation(w, collector)
}

func (h *handlers) handleValidateSink(w http.ResponseWriter, r *http.Request) {
	props, ok := h.decodeProperties(w, r)
	if !ok {
		return
	}
	collector := plugin.NewFailureCollector()
	sink.FromProperties(props, collector).Collect(collector)
	respondValidation(w, collector)
}

func (h *handlers) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	props, ok := h.decodeProperties(w, r)
	if !ok {
		return
	}

	collector := plugin.NewFailureCollector()
	conn := props.Connection(collector)
	conn.CollectConnection(collector)
	if collector.Err() != nil {
		respondValidation(w, collector)
		return
	}

	ctx, cancel := withProbeTimeout(r)
	defer cancel()
	if err := h.prober.Probe(ctx, conn); err != nil {
		h.logger.Warn("connectivity probe failed", "connection", conn, "error", err)
		respondJSON(w, http.StatusBadGateway, map[string]any{"status": "unreachable", "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *handlers) decodeProperties(w http.ResponseWriter, r *http.Request) (plugin.Properties, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	var raw map[string]any
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "request body must be a JSON object of properties")
		return nil, false
	}

	props, err := plugin.NewProperties(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return props, true
}

func respondValidation(w http.ResponseWriter, collector *plugin.FailureCollector) {
	failures := collector.Failures()
	if failures == nil {
		failures = []*plugin.ConfigurationError{}
	}
	status := http.StatusOK
	if len(failures) > 0 {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, validationResponse{Valid: len(failures) == 0, Failures: failures})
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
