package handler

import (
	"net/http"

	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
)

// DispenseHandler exposes the FEFO endpoints.
type DispenseHandler struct {
	inventory *service.InventoryService
}

// NewDispenseHandler creates a new dispense handler
func NewDispenseHandler(inventory *service.InventoryService) *DispenseHandler {
	return &DispenseHandler{inventory: inventory}
}

// Dispense handles POST /api/keluar: remove one unit of the
// earliest-expiring stock.
func (h *DispenseHandler) Dispense(w http.ResponseWriter, r *http.Request) {
	result, err := h.inventory.DispenseFEFO(r.Context(), httputil.GetUsername(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

// Order handles GET /api/fefo: the ranked dispense order, read-only.
func (h *DispenseHandler) Order(w http.ResponseWriter, r *http.Request) {
	order, err := h.inventory.FEFOOrder(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, order)
}
