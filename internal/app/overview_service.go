package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
)

// CatalogOverview aggregates the three directories.
type CatalogOverview struct {
	Grants    domain.GrantStats    `json:"grants"`
	Investors domain.InvestorStats `json:"investors"`
	Tools     domain.ToolStats     `json:"tools"`
}

// Overview is the workspace dashboard. A section that fails to load is
// omitted and its error is reported under Errors.
type Overview struct {
	Workspace   string                  `json:"workspace"`
	GeneratedAt time.Time               `json:"generatedAt"`
	SWOT        *domain.SWOTSummary     `json:"swot,omitempty"`
	Fit         *domain.FitAnalysis     `json:"fit,omitempty"`
	Compliance  *domain.ComplianceStats `json:"compliance,omitempty"`
	Campaigns   *domain.CampaignStats   `json:"campaigns,omitempty"`
	Guides      *ProgressView           `json:"guides,omitempty"`
	Legal       *domain.LegalChoice     `json:"legal,omitempty"`
	Experts     *int                    `json:"experts,omitempty"`
	Saved       map[SavedKind]int       `json:"saved"`
	Catalog     *CatalogOverview        `json:"catalog,omitempty"`
	Errors      map[string]string       `json:"errors,omitempty"`
}

// OverviewServiceConfig wires the services the dashboard reads from.
type OverviewServiceConfig struct {
	SWOT       *SWOTService
	Canvas     *CanvasService
	Catalog    *CatalogService
	Legal      *LegalService
	Compliance *ComplianceService
	Campaigns  *CampaignService
	Guides     *GuideService
	Experts    *ExpertService
}

// OverviewService builds the workspace dashboard.
type OverviewService struct {
	cfg    OverviewServiceConfig
	deps   Deps
	logger *slog.Logger
}

// NewOverviewService creates an overview service.
func NewOverviewService(deps Deps, cfg OverviewServiceConfig) *OverviewService {
	return &OverviewService{cfg: cfg, deps: deps, logger: deps.logger("app.OverviewService")}
}

// Get loads every tool concurrently.
func (s *OverviewService) Get(ctx context.Context, workspace string) (Overview, error) {
	ctx, span := telemetry.StartSpan(ctx, "overview.get", attribute.String("workspace", workspace))
	defer span.End()

	sections := []struct {
		name string
		load func(context.Context) (func(*Overview), error)
	}{
		{"swot", func(ctx context.Context) (func(*Overview), error) {
			v, err := s.cfg.SWOT.Summary(ctx, workspace)
			return func(o *Overview) { o.SWOT = &v }, err
		}},
		{"canvas", func(ctx context.Context) (func(*Overview), error) {
			c, err := s.cfg.Canvas.Get(ctx, workspace)
			v := domain.AnalyzeFit(c)
			return func(o *Overview) { o.Fit = &v }, err
		}},
		{"compliance", func(ctx context.Context) (func(*Overview), error) {
			v, err := s.cfg.Compliance.Stats(ctx, workspace)
			return func(o *Overview) { o.Compliance = &v }, err
		}},
		{"campaigns", func(ctx context.Context) (func(*Overview), error) {
			v, err := s.cfg.Campaigns.Stats(ctx, workspace)
			return func(o *Overview) { o.Campaigns = &v }, err
		}},
		{"guides", func(ctx context.Context) (func(*Overview), error) {
			v, err := s.cfg.Guides.Progress(ctx, workspace)
			return func(o *Overview) { o.Guides = &v }, err
		}},
		{"legal", func(ctx context.Context) (func(*Overview), error) {
			v, err := s.cfg.Legal.Choice(ctx, workspace)
			return func(o *Overview) { o.Legal = &v }, err
		}},
		{"experts", func(ctx context.Context) (func(*Overview), error) {
			v, err := s.cfg.Experts.List(ctx, workspace)
			n := len(v)
			return func(o *Overview) { o.Experts = &n }, err
		}},
		{"saved", func(ctx context.Context) (func(*Overview), error) {
			counts := make(map[SavedKind]int, 3)
			for _, k := range []SavedKind{SavedGrants, SavedInvestors, SavedTools} {
				ids, err := s.cfg.Catalog.Saved(ctx, workspace, k)
				if err != nil {
					return nil, err
				}
				counts[k] = len(ids)
			}
			return func(o *Overview) { o.Saved = counts }, nil
		}},
		{"catalog", func(ctx context.Context) (func(*Overview), error) {
			g, i, t, err := Parallel3(ctx, s.cfg.Catalog.GrantStats, s.cfg.Catalog.InvestorStats, s.cfg.Catalog.ToolStats)
			return func(o *Overview) { o.Catalog = &CatalogOverview{Grants: g, Investors: i, Tools: t} }, err
		}},
	}

	fns := make([]func(context.Context) (func(*Overview), error), 0, len(sections))
	for _, sec := range sections {
		fns = append(fns, sec.load)
	}

	o := Overview{Workspace: workspace, GeneratedAt: s.deps.now(), Saved: map[SavedKind]int{}}

	for i, r := range ParallelPartial(ctx, fns...) {
		if r.Err != nil {
			if o.Errors == nil {
				o.Errors = make(map[string]string)
			}
			o.Errors[sections[i].name] = r.Err.Error()
			s.logger.WarnContext(ctx, "overview section failed",
				slog.String("section", sections[i].name),
				slog.Any("error", r.Err),
			)

			continue
		}
		r.Value(&o)
	}

	span.SetAttributes(attribute.Int("overview.errors", len(o.Errors)))

	return o, nil
}
