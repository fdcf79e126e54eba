package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// LegalService backs the legal structure picker.
type LegalService struct {
	deps    Deps
	catalog ports.Catalog
	state   stateSlot[domain.LegalChoice]
}

// NewLegalService creates a legal structure service.
func NewLegalService(deps Deps, catalog ports.Catalog) *LegalService {
	return &LegalService{
		deps:    deps,
		catalog: catalog,
		state:   newSlot[domain.LegalChoice](deps.Store, deps.Metrics, KeyLegal),
	}
}

// Structures lists every structure.
func (s *LegalService) Structures(ctx context.Context) ([]domain.LegalStructure, error) {
	structures, err := s.catalog.LegalStructures(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading legal structures: %w", err)
	}

	return structures, nil
}

// Recommend ranks structures for q and remembers the answers.
func (s *LegalService) Recommend(ctx context.Context, workspace string, q domain.Questionnaire) ([]domain.StructureMatch, error) {
	if q.Owners < 0 {
		return nil, domain.NewValidationErrorWithValue("owners", "must not be negative", q.Owners)
	}
	if q.Budget != "" && !q.Budget.Valid() {
		return nil, domain.NewValidationErrorWithValue("budget", "must be high, medium or low", string(q.Budget))
	}

	structures, err := s.Structures(ctx)
	if err != nil {
		return nil, err
	}

	matches := domain.RecommendStructures(structures, q)

	_, err = s.state.Update(ctx, workspace, func(c *domain.LegalChoice) error {
		c.Answers = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}

// Choose records the selected structure.
func (s *LegalService) Choose(ctx context.Context, workspace, structureID string) (domain.LegalChoice, error) {
	structures, err := s.Structures(ctx)
	if err != nil {
		return domain.LegalChoice{}, err
	}

	if _, err := findByID(structures, structureID, "legal structure",
		func(v domain.LegalStructure) string { return v.ID }); err != nil {
		return domain.LegalChoice{}, err
	}

	now := s.deps.now()

	return s.state.Update(ctx, workspace, func(c *domain.LegalChoice) error {
		c.Selected = structureID
		c.DecidedAt = &now
		return nil
	})
}

// Choice returns the stored answers and selection.
func (s *LegalService) Choice(ctx context.Context, workspace string) (domain.LegalChoice, error) {
	return s.state.Load(ctx, workspace)
}
