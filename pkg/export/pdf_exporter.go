package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Line is a label/value row of a document section.
type Line struct {
	Label string
	Value string
}

// Section groups lines under a heading.
type Section struct {
	Heading string
	Lines   []Line
}

// Document is a single-page acknowledgement such as a payment receipt.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
	Footer   string
}

// PDFExporter renders documents into A4 PDFs.
type PDFExporter struct {
	issuer string
}

// NewPDFExporter constructs a PDF exporter whose header carries the issuer name.
func NewPDFExporter(issuer string) *PDFExporter {
	return &PDFExporter{issuer: issuer}
}

// Render lays out the document as headed label/value blocks.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	// Core fonts are cp1252; the rupee sign and similar runes need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if e.issuer != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, tr(e.issuer), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, tr(doc.Title), "", 1, "C", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.SetFillColor(230, 238, 250)
			pdf.CellFormat(0, 8, tr(section.Heading), "", 1, "L", true, 0, "")
		}
		for _, line := range section.Lines {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(60, 7, tr(line.Label), "B", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(0, 7, tr(line.Value), "B", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	if doc.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr(doc.Footer), "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
