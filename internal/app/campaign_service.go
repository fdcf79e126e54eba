package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
)

// CampaignInput is the editable part of an email campaign.
type CampaignInput struct {
	Name        string
	Subject     string
	PreviewText string
	Body        string
	Segment     string
	Recipients  int
}

// CampaignService backs the email campaign simulator.
type CampaignService struct {
	deps   Deps
	state  stateSlot[domain.EmailCampaignData]
	logger *slog.Logger
}

// NewCampaignService creates a campaign service.
func NewCampaignService(deps Deps) *CampaignService {
	return &CampaignService{
		deps:   deps,
		state:  newSlot[domain.EmailCampaignData](deps.Store, deps.Metrics, KeyCampaigns),
		logger: deps.logger("app.CampaignService"),
	}
}

// List returns every campaign, newest first.
func (s *CampaignService) List(ctx context.Context, workspace string) ([]domain.EmailCampaign, error) {
	data, err := s.state.Load(ctx, workspace)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(data.Campaigns)
	slices.SortStableFunc(out, func(a, b domain.EmailCampaign) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if out == nil {
		out = []domain.EmailCampaign{}
	}

	return out, nil
}

// Get returns campaign id.
func (s *CampaignService) Get(ctx context.Context, workspace, id string) (domain.EmailCampaign, error) {
	data, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.EmailCampaign{}, err
	}

	return findByID(data.Campaigns, id, "campaign", func(c domain.EmailCampaign) string { return c.ID })
}

// Create stores a new draft campaign.
func (s *CampaignService) Create(ctx context.Context, workspace string, in CampaignInput) (domain.EmailCampaign, error) {
	if err := validateCampaign(in); err != nil {
		return domain.EmailCampaign{}, err
	}

	c := domain.EmailCampaign{
		ID:        newID(),
		Status:    domain.CampaignDraft,
		CreatedAt: s.deps.now(),
	}
	applyCampaignInput(&c, in)

	_, err := s.state.Update(ctx, workspace, func(d *domain.EmailCampaignData) error {
		d.Campaigns = append(d.Campaigns, c)
		return nil
	})
	if err != nil {
		return domain.EmailCampaign{}, err
	}

	return c, nil
}

// Update edits a draft. Sent campaigns are frozen.
func (s *CampaignService) Update(ctx context.Context, workspace, id string, in CampaignInput) (domain.EmailCampaign, error) {
	if err := validateCampaign(in); err != nil {
		return domain.EmailCampaign{}, err
	}

	var out domain.EmailCampaign
	_, err := s.state.Update(ctx, workspace, func(d *domain.EmailCampaignData) error {
		c, err := campaignRef(d, id)
		if err != nil {
			return err
		}
		if c.Status == domain.CampaignSent {
			return domain.NewForbiddenError("update campaign", "campaign was already sent")
		}
		applyCampaignInput(c, in)
		out = *c

		return nil
	})

	return out, err
}

// Delete removes campaign id.
func (s *CampaignService) Delete(ctx context.Context, workspace, id string) error {
	_, err := s.state.Update(ctx, workspace, func(d *domain.EmailCampaignData) error {
		n := len(d.Campaigns)
		d.Campaigns = slices.DeleteFunc(d.Campaigns, func(c domain.EmailCampaign) bool { return c.ID == id })
		if len(d.Campaigns) == n {
			return domain.NewNotFoundError("campaign", id)
		}

		return nil
	})

	return err
}

// Simulate "sends" campaign id and stores simulated engagement results.
// Simulating a sent campaign again draws new numbers.
func (s *CampaignService) Simulate(ctx context.Context, workspace, id string) (domain.EmailCampaign, error) {
	ctx, span := telemetry.StartSpan(ctx, "campaign.simulate", attribute.String("campaign.id", id))
	defer span.End()

	var out domain.EmailCampaign
	_, err := s.state.Update(ctx, workspace, func(d *domain.EmailCampaignData) error {
		c, err := campaignRef(d, id)
		if err != nil {
			return err
		}
		if c.Recipients <= 0 {
			return domain.NewValidationError("recipients", "must be greater than zero to send")
		}

		results := domain.SimulateCampaign(*c, s.deps.rng("campaign:"+c.ID))
		now := s.deps.now()
		c.Results = &results
		c.Status = domain.CampaignSent
		c.SentAt = &now
		out = *c

		return nil
	})
	if err != nil {
		return domain.EmailCampaign{}, err
	}

	s.deps.Metrics.Simulation("campaign")
	s.logger.InfoContext(ctx, "campaign simulated",
		slog.String("campaign_id", id),
		slog.Float64("open_rate", out.Results.OpenRate),
	)

	return out, nil
}

// Stats aggregates every campaign.
func (s *CampaignService) Stats(ctx context.Context, workspace string) (domain.CampaignStats, error) {
	data, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.CampaignStats{}, err
	}

	return domain.SummarizeCampaigns(data.Campaigns), nil
}

func campaignRef(d *domain.EmailCampaignData, id string) (*domain.EmailCampaign, error) {
	i := slices.IndexFunc(d.Campaigns, func(c domain.EmailCampaign) bool { return c.ID == id })
	if i < 0 {
		return nil, domain.NewNotFoundError("campaign", id)
	}

	return &d.Campaigns[i], nil
}

func validateCampaign(in CampaignInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.NewValidationError("name", "is required")
	case strings.TrimSpace(in.Subject) == "":
		return domain.NewValidationError("subject", "is required")
	case in.Recipients < 0:
		return domain.NewValidationErrorWithValue("recipients", "must not be negative", in.Recipients)
	default:
		return nil
	}
}

func applyCampaignInput(c *domain.EmailCampaign, in CampaignInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Subject = strings.TrimSpace(in.Subject)
	c.PreviewText = strings.TrimSpace(in.PreviewText)
	c.Body = in.Body
	c.Segment = strings.TrimSpace(in.Segment)
	c.Recipients = in.Recipients
}
