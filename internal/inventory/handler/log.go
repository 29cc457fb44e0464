package handler

import (
	"net/http"

	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
)

// LogHandler exposes the activity log (APJ only, enforced by middleware).
type LogHandler struct {
	inventory *service.InventoryService
}

// NewLogHandler creates a new log handler
func NewLogHandler(inventory *service.InventoryService) *LogHandler {
	return &LogHandler{inventory: inventory}
}

// List handles GET /api/logs
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.inventory.Logs(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, entries)
}
