package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// ExpertService backs the expert network sign-up.
type ExpertService struct {
	deps   Deps
	state  stateSlot[domain.ExpertRegistrations]
	logger *slog.Logger
}

// NewExpertService creates an expert registration service.
func NewExpertService(deps Deps) *ExpertService {
	return &ExpertService{
		deps:   deps,
		state:  newSlot[domain.ExpertRegistrations](deps.Store, deps.Metrics, KeyExperts),
		logger: deps.logger("app.ExpertService"),
	}
}

// Register stores a validated registration. A repeated email is a conflict.
func (s *ExpertService) Register(ctx context.Context, workspace string, reg domain.ExpertRegistration) (domain.ExpertRegistration, error) {
	reg.ID = newID()
	reg.RegisteredAt = s.deps.now()
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Expertise = slices.DeleteFunc(slices.Clone(reg.Expertise), func(e string) bool {
		return strings.TrimSpace(e) == ""
	})

	if len(reg.Expertise) == 0 {
		return domain.ExpertRegistration{}, domain.NewValidationError("expertise", "at least one area is required")
	}

	_, err := s.state.Update(ctx, workspace, func(r *domain.ExpertRegistrations) error {
		return r.Register(reg)
	})
	if err != nil {
		return domain.ExpertRegistration{}, err
	}

	s.logger.InfoContext(ctx, "expert registered", slog.String("expert_id", reg.ID))

	return reg, nil
}

// List returns every registration in sign-up order.
func (s *ExpertService) List(ctx context.Context, workspace string) ([]domain.ExpertRegistration, error) {
	r, err := s.state.Load(ctx, workspace)
	if err != nil {
		return nil, err
	}
	if r.Experts == nil {
		return []domain.ExpertRegistration{}, nil
	}

	return r.Experts, nil
}
