package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
)

// MedicineHandler exposes stock CRUD endpoints.
type MedicineHandler struct {
	inventory *service.InventoryService
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(inventory *service.InventoryService) *MedicineHandler {
	return &MedicineHandler{inventory: inventory}
}

// List handles GET /api/obat
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSONWithMeta(w, http.StatusOK, items, &httputil.Meta{Total: int64(len(items))})
}

// Get handles GET /api/obat/{id}
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, item)
}

// Create handles POST /api/obat
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MedicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	item, err := h.inventory.Create(r.Context(), req, httputil.GetUsername(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, item)
}

// Update handles PUT /api/obat/{id}
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.MedicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	item, err := h.inventory.Update(r.Context(), chi.URLParam(r, "id"), req, httputil.GetUsername(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/obat/{id}
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Delete(r.Context(), chi.URLParam(r, "id"), httputil.GetUsername(r.Context())); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}
