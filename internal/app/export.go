package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/metrics"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// ExportService renders downloads and optionally archives a copy of each.
type ExportService struct {
	renderers map[domain.ExportFormat]ports.DocumentRenderer
	archive   ports.BlobStore
	clock     ports.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// ExportServiceConfig contains the dependencies of the export service.
type ExportServiceConfig struct {
	Renderers []ports.DocumentRenderer
	// Archive is optional; nil disables archiving.
	Archive ports.BlobStore
	Clock   ports.Clock
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewExportService creates an export service.
func NewExportService(cfg ExportServiceConfig) *ExportService {
	r := make(map[domain.ExportFormat]ports.DocumentRenderer, len(cfg.Renderers))
	for _, rd := range cfg.Renderers {
		r[rd.Format()] = rd
	}

	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ExportService{
		renderers: r,
		archive:   cfg.Archive,
		clock:     clock,
		metrics:   cfg.Metrics,
		logger:    loggerOrDefault(cfg.Logger).With(slog.String("component", "app.ExportService")),
	}
}

// JSON encodes v as indented JSON named after feature.
func (s *ExportService) JSON(ctx context.Context, workspace, feature string, v any) (domain.Export, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.Export{}, fmt.Errorf("encoding %s export: %w", feature, err)
	}

	return s.finish(ctx, workspace, feature, domain.FormatJSON, data), nil
}

// Document renders doc in format.
func (s *ExportService) Document(ctx context.Context, workspace, feature string, doc domain.Document, format domain.ExportFormat) (domain.Export, error) {
	r, ok := s.renderers[format]
	if !ok {
		return domain.Export{}, domain.NewValidationErrorWithValue("format", "unsupported export format", string(format))
	}

	data, err := r.Render(ctx, doc)
	if err != nil {
		return domain.Export{}, fmt.Errorf("rendering %s %s: %w", feature, format, err)
	}

	return s.finish(ctx, workspace, feature, format, data), nil
}

// Archived lists archived exports of workspace.
func (s *ExportService) Archived(ctx context.Context, workspace string) ([]ports.BlobObject, error) {
	if s.archive == nil {
		return []ports.BlobObject{}, nil
	}

	return s.archive.List(ctx, workspace+"/")
}

// ArchivedFile returns one archived export.
func (s *ExportService) ArchivedFile(ctx context.Context, workspace, filename string) ([]byte, error) {
	if s.archive == nil || path.Base(filename) != filename {
		return nil, domain.NewNotFoundError("archived export", filename)
	}

	return s.archive.Get(ctx, workspace+"/"+filename)
}

// finish names the export and archives a copy. Archive failures are logged
// and do not fail the download.
func (s *ExportService) finish(ctx context.Context, workspace, feature string, format domain.ExportFormat, data []byte) domain.Export {
	exp := domain.Export{
		Filename: domain.ExportFilename(feature, format, s.clock.Now()),
		Format:   format,
		Data:     data,
	}

	s.metrics.Export(feature, string(format))

	if s.archive != nil {
		key := workspace + "/" + exp.Filename
		if err := s.archive.Put(ctx, key, format.ContentType(), data); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "archiving export failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
	}

	return exp
}
