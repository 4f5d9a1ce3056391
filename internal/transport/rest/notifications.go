package rest

import (
	"log/slog"
	"net/http"
)

// NotificationsHandler serves the per-user notification feed.
type NotificationsHandler struct {
	stores workspaceResolver
	log    *slog.Logger
}

// NewNotificationsHandler creates a NotificationsHandler.
func NewNotificationsHandler(stores workspaceResolver, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{stores: stores, log: logger.With("handler", "notifications")}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.Notifications())
}
