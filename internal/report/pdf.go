package report

import (
	"bytes"
	"context"

	"backoffice-service/pkg/config"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
	pdfFont      = "Helvetica"
)

// PDFRenderer draws documents as A4 tables with fpdf
type PDFRenderer struct {
	company     string
	orientation string
}

// NewPDFRenderer creates a renderer from the report configuration
func NewPDFRenderer(cfg *config.ReportConfig) *PDFRenderer {
	orientation := cfg.Orientation
	if orientation != "P" {
		orientation = "L"
	}
	return &PDFRenderer{company: cfg.CompanyName, orientation: orientation}
}

func (r *PDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New(r.orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 5, tr(r.company), "", 0, "L", false, 0, "")
		pdf.SetX(pdfMargin)
		pdf.CellFormat(0, 5, tr(doc.GeneratedAt.Format("2006-01-02 15:04")), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")

	pdf.SetFont(pdfFont, "", 10)
	for _, f := range doc.Fields {
		pdf.CellFormat(0, 6, tr(f.Label+": "+f.Value), "", 1, "L", false, 0, "")
	}
	if len(doc.Fields) > 0 {
		pdf.Ln(2)
	}

	widths := r.columnWidths(pdf, doc.Columns)
	header := func() {
		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range doc.Columns {
			pdf.CellFormat(widths[i], pdfRowHeight, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(pdfFont, "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range doc.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-2*pdfMargin {
			pdf.AddPage()
			header()
		}
		for i, col := range doc.Columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(widths[i], pdfRowHeight, tr(value), "1", 0, string(col.Align), false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(doc.Totals) > 0 {
		pdf.Ln(2)
		pdf.SetFont(pdfFont, "B", 10)
		for _, f := range doc.Totals {
			pdf.CellFormat(0, 6, tr(f.Label+": "+f.Value), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "write pdf")
	}
	return buf.Bytes(), nil
}

// columnWidths spreads the printable width over the columns by their relative widths
func (r *PDFRenderer) columnWidths(pdf *fpdf.Fpdf, columns []Column) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	available := pageWidth - 2*pdfMargin

	var total float64
	for _, c := range columns {
		total += c.Width
	}
	widths := make([]float64, len(columns))
	for i, c := range columns {
		if total == 0 {
			widths[i] = available / float64(len(columns))
			continue
		}
		widths[i] = available * c.Width / total
	}
	return widths
}
