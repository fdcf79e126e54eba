package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// GuideSummary is a guide listing entry with the workspace's progress.
type GuideSummary struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Summary  string             `json:"summary"`
	Category string             `json:"category"`
	Level    domain.Level       `json:"difficulty"`
	Icon     domain.Icon        `json:"icon"`
	Chapters int                `json:"chapters"`
	Minutes  int                `json:"minutes"`
	Status   domain.GuideStatus `json:"status"`
}

// ProgressView is the reader's overall progress.
type ProgressView struct {
	domain.GuideProgress
	Level        int `json:"level"`
	ChaptersRead int `json:"chaptersRead"`
	GuidesDone   int `json:"guidesCompleted"`
}

// GuideService backs the guide reader.
type GuideService struct {
	deps            Deps
	catalog         ports.Catalog
	state           stateSlot[domain.GuideProgress]
	exports         *ExportService
	certificateName string
	logger          *slog.Logger
}

// GuideServiceConfig configures the guide reader.
type GuideServiceConfig struct {
	// CertificateName is used when a certificate request names no recipient.
	CertificateName string
}

// NewGuideService creates a guide service.
func NewGuideService(deps Deps, catalog ports.Catalog, exports *ExportService, cfg GuideServiceConfig) *GuideService {
	return &GuideService{
		deps:            deps,
		catalog:         catalog,
		state:           newSlot[domain.GuideProgress](deps.Store, deps.Metrics, KeyGuide),
		exports:         exports,
		certificateName: cfg.CertificateName,
		logger:          deps.logger("app.GuideService"),
	}
}

// List returns every guide with the workspace's status.
func (s *GuideService) List(ctx context.Context, workspace string) ([]GuideSummary, error) {
	guides, err := s.guides(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.state.Load(ctx, workspace)
	if err != nil {
		return nil, err
	}

	out := make([]GuideSummary, 0, len(guides))
	for _, g := range guides {
		var minutes int
		for _, c := range g.Chapters {
			minutes += c.Minutes
		}

		out = append(out, GuideSummary{
			ID:       g.ID,
			Title:    g.Title,
			Summary:  g.Summary,
			Category: g.Category,
			Level:    g.Level,
			Icon:     g.Icon,
			Chapters: len(g.Chapters),
			Minutes:  minutes,
			Status:   p.StatusFor(g),
		})
	}

	return out, nil
}

// Get returns guide id.
func (s *GuideService) Get(ctx context.Context, id string) (domain.Guide, error) {
	guides, err := s.guides(ctx)
	if err != nil {
		return domain.Guide{}, err
	}

	return findByID(guides, id, "guide", func(g domain.Guide) string { return g.ID })
}

// CompleteChapter marks a chapter read and awards experience.
func (s *GuideService) CompleteChapter(ctx context.Context, workspace, guideID, chapterID string) (domain.ChapterResult, error) {
	g, err := s.Get(ctx, guideID)
	if err != nil {
		return domain.ChapterResult{}, err
	}

	var res domain.ChapterResult
	_, err = s.state.Update(ctx, workspace, func(p *domain.GuideProgress) error {
		next, r, err := domain.CompleteChapter(*p, g, chapterID, s.deps.now())
		if err != nil {
			return err
		}
		*p, res = next, r

		return nil
	})
	if err != nil {
		return domain.ChapterResult{}, err
	}

	if res.GuideCompleted {
		s.logger.InfoContext(ctx, "guide completed", slog.String("guide_id", guideID), slog.Int("level", res.Level))
	}

	return res, nil
}

// Progress returns the reader's overall progress.
func (s *GuideService) Progress(ctx context.Context, workspace string) (ProgressView, error) {
	p, err := s.state.Load(ctx, workspace)
	if err != nil {
		return ProgressView{}, err
	}

	if p.Badges == nil {
		p.Badges = []string{}
	}

	return ProgressView{
		GuideProgress: p,
		Level:         p.Level(),
		ChaptersRead:  p.ChaptersRead(),
		GuidesDone:    len(p.CompletedGuides),
	}, nil
}

// Certificate renders a completion certificate. Only finished guides qualify.
func (s *GuideService) Certificate(ctx context.Context, workspace, guideID, recipient string, format domain.ExportFormat) (domain.Export, error) {
	g, err := s.Get(ctx, guideID)
	if err != nil {
		return domain.Export{}, err
	}

	p, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.Export{}, err
	}

	cert, err := domain.IssueCertificate(p, g, cmp.Or(recipient, s.certificateName))
	if err != nil {
		return domain.Export{}, err
	}

	doc := domain.Document{
		Title:    "Certificate of Completion",
		Subtitle: cert.GuideTitle,
		Body:     cert.Text(),
		Footer:   fmt.Sprintf("Level %d, %d XP", cert.Level, cert.XP),
	}

	return s.exports.Document(ctx, workspace, "certificate-"+g.ID, doc, format)
}

// Text renders the whole guide as a text download.
func (s *GuideService) Text(ctx context.Context, workspace, guideID string) (domain.Export, error) {
	g, err := s.Get(ctx, guideID)
	if err != nil {
		return domain.Export{}, err
	}

	doc := domain.Document{Title: g.Title, Body: domain.GuideText(g)}

	return s.exports.Document(ctx, workspace, "guide-"+g.ID, doc, domain.FormatText)
}

func (s *GuideService) guides(ctx context.Context) ([]domain.Guide, error) {
	guides, err := s.catalog.Guides(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading guides: %w", err)
	}

	return guides, nil
}
