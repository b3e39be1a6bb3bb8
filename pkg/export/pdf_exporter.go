package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ReceiptDocument carries the fields rendered onto a payment receipt.
type ReceiptDocument struct {
	ReceiptNumber string
	StudentName   string
	StudentID     string
	AcademicYear  string
	PaymentDate   string
	PaymentMethod string
	Remarks       string
	Lines         []ReceiptLine
	Total         string
}

// ReceiptLine is a single month allocation on a receipt.
type ReceiptLine struct {
	Month  string
	Amount string
}

// RenderReceipt produces a printable payment receipt.
func (e *PDFExporter) RenderReceipt(doc ReceiptDocument) ([]byte, error) {
	if doc.ReceiptNumber == "" {
		return nil, fmt.Errorf("receipt number required")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "FEE PAYMENT RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	meta := [][2]string{
		{"Receipt No", doc.ReceiptNumber},
		{"Student", fmt.Sprintf("%s (%s)", doc.StudentName, doc.StudentID)},
		{"Academic Year", doc.AcademicYear},
		{"Payment Date", doc.PaymentDate},
		{"Payment Method", doc.PaymentMethod},
	}
	for _, pair := range meta {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, pair[0], "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, pair[1], "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 8, "Fee Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(90, 8, "Amount", "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(90, 7, line.Month, "1", 0, "", false, 0, "")
		pdf.CellFormat(90, 7, line.Amount, "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(90, 8, doc.Total, "1", 1, "R", false, 0, "")

	if doc.Remarks != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, "Remarks: "+doc.Remarks, "", 1, "", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
