package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

var _ ports.DocumentRenderer = (*PDF)(nil)

// A4 layout in millimetres.
const (
	pageWidth    = 210.0
	marginLeft   = 20.0
	marginRight  = 20.0
	marginTop    = 20.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDF renders documents with the core Helvetica font. Text outside Latin-1
// is transliterated by the font's code page translator.
type PDF struct {
	// Author is written to the document metadata.
	Author string
}

// NewPDF creates a PDF renderer.
func NewPDF(author string) *PDF {
	return &PDF{Author: author}
}

// Format returns domain.FormatPDF.
func (*PDF) Format() domain.ExportFormat { return domain.FormatPDF }

// Render lays the document out on A4 pages.
func (p *PDF) Render(ctx context.Context, doc domain.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(doc.Title, true)
	if p.Author != "" {
		pdf.SetAuthor(p.Author, true)
	}
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)

	if doc.Footer != "" {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(contentWidth, 6, tr(doc.Footer), "", 0, "C", false, 0, "")
		})
	}

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.MultiCell(contentWidth, 9, tr(doc.Title), "", "C", false)

	if doc.Subtitle != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(contentWidth, 7, tr(doc.Subtitle), "", "C", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(30, 30, 30)

	for _, para := range strings.Split(doc.Body, "\n\n") {
		para = strings.TrimRight(para, "\n")
		if strings.TrimSpace(para) == "" {
			continue
		}
		pdf.MultiCell(contentWidth, 5.5, tr(para), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}
