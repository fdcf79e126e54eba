package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// SavedKind names one of the bookmark lists.
type SavedKind string

const (
	SavedGrants    SavedKind = "grants"
	SavedInvestors SavedKind = "investors"
	SavedTools     SavedKind = "tools"
)

// ParseSavedKind converts a path value into a SavedKind.
func ParseSavedKind(s string) (SavedKind, error) {
	switch k := SavedKind(s); k {
	case SavedGrants, SavedInvestors, SavedTools:
		return k, nil
	default:
		return "", domain.NewValidationErrorWithValue("kind", "must be one of grants, investors, tools", s)
	}
}

func (k SavedKind) key() string {
	switch k {
	case SavedInvestors:
		return KeySavedInvestors
	case SavedTools:
		return KeySavedTools
	default:
		return KeySavedGrants
	}
}

// ToggleResult reports the bookmark state after a toggle.
type ToggleResult struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

// CatalogService serves the grant, investor and tool directories and the
// workspace's bookmarks into them.
type CatalogService struct {
	catalog ports.Catalog
	saved   map[SavedKind]stateSlot[[]string]
	exports *ExportService
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(deps Deps, catalog ports.Catalog, exports *ExportService) *CatalogService {
	saved := make(map[SavedKind]stateSlot[[]string], 3)
	for _, k := range []SavedKind{SavedGrants, SavedInvestors, SavedTools} {
		saved[k] = newSlot[[]string](deps.Store, deps.Metrics, k.key())
	}

	return &CatalogService{
		catalog: catalog,
		saved:   saved,
		exports: exports,
		logger:  deps.logger("app.CatalogService"),
	}
}

// Grants returns grants matching f. When f.SavedOnly is set the workspace's
// bookmarks are applied.
func (s *CatalogService) Grants(ctx context.Context, workspace string, f domain.GrantFilter) ([]domain.Grant, error) {
	grants, err := s.catalog.Grants(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading grants: %w", err)
	}

	if f.SavedOnly {
		if f.Saved, err = s.savedSet(ctx, workspace, SavedGrants); err != nil {
			return nil, err
		}
	}

	return domain.FilterGrants(grants, f), nil
}

// Grant returns one grant.
func (s *CatalogService) Grant(ctx context.Context, id string) (domain.Grant, error) {
	grants, err := s.catalog.Grants(ctx)
	if err != nil {
		return domain.Grant{}, fmt.Errorf("loading grants: %w", err)
	}

	return findByID(grants, id, "grant", func(g domain.Grant) string { return g.ID })
}

// GrantStats summarizes the grant catalog.
func (s *CatalogService) GrantStats(ctx context.Context) (domain.GrantStats, error) {
	grants, err := s.catalog.Grants(ctx)
	if err != nil {
		return domain.GrantStats{}, fmt.Errorf("loading grants: %w", err)
	}

	return domain.SummarizeGrants(grants), nil
}

// Investors returns investors matching f.
func (s *CatalogService) Investors(ctx context.Context, workspace string, f domain.InvestorFilter) ([]domain.Investor, error) {
	investors, err := s.catalog.Investors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading investors: %w", err)
	}

	if f.SavedOnly {
		if f.Saved, err = s.savedSet(ctx, workspace, SavedInvestors); err != nil {
			return nil, err
		}
	}

	return domain.FilterInvestors(investors, f), nil
}

// Investor returns one investor.
func (s *CatalogService) Investor(ctx context.Context, id string) (domain.Investor, error) {
	investors, err := s.catalog.Investors(ctx)
	if err != nil {
		return domain.Investor{}, fmt.Errorf("loading investors: %w", err)
	}

	return findByID(investors, id, "investor", func(v domain.Investor) string { return v.ID })
}

// InvestorStats summarizes the investor directory.
func (s *CatalogService) InvestorStats(ctx context.Context) (domain.InvestorStats, error) {
	investors, err := s.catalog.Investors(ctx)
	if err != nil {
		return domain.InvestorStats{}, fmt.Errorf("loading investors: %w", err)
	}

	return domain.SummarizeInvestors(investors), nil
}

// Tools returns tools matching f.
func (s *CatalogService) Tools(ctx context.Context, workspace string, f domain.ToolFilter) ([]domain.Tool, error) {
	tools, err := s.catalog.Tools(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tools: %w", err)
	}

	if f.SavedOnly {
		if f.Saved, err = s.savedSet(ctx, workspace, SavedTools); err != nil {
			return nil, err
		}
	}

	return domain.FilterTools(tools, f), nil
}

// ToolStats summarizes the tool directories.
func (s *CatalogService) ToolStats(ctx context.Context) (domain.ToolStats, error) {
	tools, err := s.catalog.Tools(ctx)
	if err != nil {
		return domain.ToolStats{}, fmt.Errorf("loading tools: %w", err)
	}

	return domain.SummarizeTools(tools), nil
}

// Saved returns the bookmarked ids of kind.
func (s *CatalogService) Saved(ctx context.Context, workspace string, kind SavedKind) ([]string, error) {
	ids, err := s.saved[kind].Load(ctx, workspace)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// ToggleSaved bookmarks id or removes the bookmark. Unknown ids are rejected.
func (s *CatalogService) ToggleSaved(ctx context.Context, workspace string, kind SavedKind, id string) (ToggleResult, error) {
	if err := s.exists(ctx, kind, id); err != nil {
		return ToggleResult{}, err
	}

	var saved bool
	_, err := s.saved[kind].Update(ctx, workspace, func(ids *[]string) error {
		*ids, saved = domain.ToggleSaved(*ids, id)
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}

	s.logger.DebugContext(ctx, "bookmark toggled",
		slog.String("kind", string(kind)),
		slog.String("id", id),
		slog.Bool("saved", saved),
	)

	return ToggleResult{ID: id, Saved: saved}, nil
}

// ExportSaved renders the bookmarked records of kind as JSON. The tool
// export is the workspace's tech stack.
func (s *CatalogService) ExportSaved(ctx context.Context, workspace string, kind SavedKind) (domain.Export, error) {
	switch kind {
	case SavedGrants:
		grants, err := s.Grants(ctx, workspace, domain.GrantFilter{SavedOnly: true})
		if err != nil {
			return domain.Export{}, err
		}

		return s.exports.JSON(ctx, workspace, "saved-grants", grants)
	case SavedInvestors:
		investors, err := s.Investors(ctx, workspace, domain.InvestorFilter{SavedOnly: true})
		if err != nil {
			return domain.Export{}, err
		}

		return s.exports.JSON(ctx, workspace, "saved-investors", investors)
	default:
		tools, err := s.Tools(ctx, workspace, domain.ToolFilter{SavedOnly: true})
		if err != nil {
			return domain.Export{}, err
		}

		return s.exports.JSON(ctx, workspace, "tech-stack", tools)
	}
}

func (s *CatalogService) savedSet(ctx context.Context, workspace string, kind SavedKind) (domain.SavedSet, error) {
	ids, err := s.saved[kind].Load(ctx, workspace)
	if err != nil {
		return nil, err
	}

	return domain.NewSavedSet(ids), nil
}

func (s *CatalogService) exists(ctx context.Context, kind SavedKind, id string) error {
	var err error

	switch kind {
	case SavedGrants:
		_, err = s.Grant(ctx, id)
	case SavedInvestors:
		_, err = s.Investor(ctx, id)
	default:
		var tools []domain.Tool
		if tools, err = s.catalog.Tools(ctx); err == nil {
			_, err = findByID(tools, id, "tool", func(t domain.Tool) string { return t.ID })
		}
	}

	return err
}

func findByID[T any](items []T, id, entity string, key func(T) string) (T, error) {
	for _, it := range items {
		if key(it) == id {
			return it, nil
		}
	}

	var zero T
	return zero, domain.NewNotFoundError(entity, id)
}
