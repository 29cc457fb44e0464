package handler

import (
	"net/http"

	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
)

// AnalysisHandler exposes analyzer verdicts and the notification feed.
type AnalysisHandler struct {
	inventory *service.InventoryService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(inventory *service.InventoryService) *AnalysisHandler {
	return &AnalysisHandler{inventory: inventory}
}

// Analysis handles GET /api/analysis
func (h *AnalysisHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	verdicts, err := h.inventory.Analysis(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, verdicts)
}

// Notifications handles GET /api/notifications
func (h *AnalysisHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	summary, err := h.inventory.Notifications(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, summary)
}
