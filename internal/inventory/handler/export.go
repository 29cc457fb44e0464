package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
	"github.com/obatqu/obatqu-backend/pkg/logger"
)

// ExportHandler renders stock reports as downloadable files.
type ExportHandler struct {
	inventory *service.InventoryService
	logger    *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(inventory *service.InventoryService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		inventory: inventory,
		logger:    log.WithComponent("export-handler"),
	}
}

// CSV handles GET /api/reports/stock.csv
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment("csv"))

	if err := h.inventory.WriteCSV(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Msg("failed to write CSV report")
		httputil.Error(w, err)
	}
}

// PDF handles GET /api/reports/stock.pdf
func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment("pdf"))

	if err := h.inventory.WritePDF(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Msg("failed to write PDF report")
		httputil.Error(w, err)
	}
}

func attachment(ext string) string {
	return fmt.Sprintf(`attachment; filename="laporan-stok-%s.%s"`, time.Now().Format("2006-01-02"), ext)
}
