// Package render turns documents into downloadable files.
package render

import (
	"context"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

var _ ports.DocumentRenderer = Text{}

// Text renders documents as UTF-8 plain text.
type Text struct{}

// Format returns domain.FormatText.
func (Text) Format() domain.ExportFormat { return domain.FormatText }

// Render returns the document text.
func (Text) Render(_ context.Context, doc domain.Document) ([]byte, error) {
	return []byte(doc.Text()), nil
}
