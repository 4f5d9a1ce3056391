package rest

import (
	"log/slog"
	"net/http"
)

// StatsHandler serves the workspace statistics endpoint.
type StatsHandler struct {
	stores workspaceResolver
	log    *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stores workspaceResolver, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{stores: stores, log: logger.With("handler", "stats")}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Summary())
}
