package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// WriteCSV renders the analyzer verdicts for all stock as CSV.
func (s *InventoryService) WriteCSV(ctx context.Context, w io.Writer) error {
	verdicts, err := s.Analysis(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"nama", "jumlah", "ved", "kadaluarsa_status", "hari_tersisa", "tindakan", "rekomendasi"}); err != nil {
		return err
	}
	for _, v := range verdicts {
		if err := cw.Write([]string{
			v.Name,
			fmt.Sprintf("%d", v.Quantity),
			string(v.Category),
			string(v.Status),
			daysLeftString(v.DaysLeft),
			string(v.Action),
			v.Recommendation,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePDF renders the analyzer verdicts for all stock as a PDF report.
func (s *InventoryService) WritePDF(ctx context.Context, w io.Writer) error {
	verdicts, err := s.Analysis(ctx)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Laporan Stok Obat", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Laporan Stok Obat")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Dibuat: %s", s.now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	headers := []string{"Nama", "Jumlah", "VED", "Status", "Hari", "Tindakan", "Rekomendasi"}
	widths := []float64{55, 16, 12, 32, 14, 26, 115}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, v := range verdicts {
		row := []string{
			v.Name,
			fmt.Sprintf("%d", v.Quantity),
			string(v.Category),
			string(v.Status),
			daysLeftString(v.DaysLeft),
			string(v.Action),
			v.Recommendation,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func daysLeftString(d *int) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *d)
}
