package domain

import (
	"time"
)

// ExportFormat is a download file type.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatText ExportFormat = "txt"
	FormatPDF  ExportFormat = "pdf"
)

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ExportFilename builds "{feature}-{YYYY-MM-DD}.{ext}" using the UTC date of now.
func ExportFilename(feature string, format ExportFormat, now time.Time) string {
	return feature + "-" + now.UTC().Format(time.DateOnly) + "." + string(format)
}

// Export is a rendered download.
type Export struct {
	Filename string
	Format   ExportFormat
	Data     []byte
}

// Document is printable content for text and PDF renderers.
type Document struct {
	Title    string
	Subtitle string
	Body     string
	Footer   string
}

// Text renders the document as plain text.
func (d Document) Text() string {
	out := d.Title + "\n"
	if d.Subtitle != "" {
		out += d.Subtitle + "\n"
	}
	out += "\n" + d.Body
	if d.Footer != "" {
		out += "\n\n" + d.Footer
	}

	return out + "\n"
}
