package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
)

// SWOTItemInput is the editable part of a SWOT item.
type SWOTItemInput struct {
	Text     string
	Priority domain.Level
	Impact   domain.Level
}

// SWOTService manages the SWOT worksheet.
type SWOTService struct {
	deps     Deps
	state    stateSlot[domain.SWOTAnalysis]
	exports  *ExportService
	executor *Executor
	logger   *slog.Logger
}

// NewSWOTService creates a SWOT service.
func NewSWOTService(deps Deps, exports *ExportService) *SWOTService {
	logger := deps.logger("app.SWOTService")

	return &SWOTService{
		deps:     deps,
		state:    newSlot[domain.SWOTAnalysis](deps.Store, deps.Metrics, KeySWOT),
		exports:  exports,
		executor: NewExecutor(logger),
		logger:   logger,
	}
}

// Get returns the worksheet; an empty one when nothing is stored.
func (s *SWOTService) Get(ctx context.Context, workspace string) (domain.SWOTAnalysis, error) {
	return s.state.Load(ctx, workspace)
}

// Replace stores a whole worksheet. Missing ids are generated. Strategies
// in a are not stored as sent: a non-nil list is regenerated from the items.
func (s *SWOTService) Replace(ctx context.Context, workspace string, a domain.SWOTAnalysis) (domain.SWOTAnalysis, error) {
	a, err := normalizeSWOT(a)
	if err != nil {
		return domain.SWOTAnalysis{}, err
	}
	if err := uniqueIDs(swotIDs(a)); err != nil {
		return domain.SWOTAnalysis{}, err
	}

	if err := s.state.Save(ctx, workspace, a); err != nil {
		return domain.SWOTAnalysis{}, err
	}

	return a, nil
}

// AddItem appends an item to quadrant q.
func (s *SWOTService) AddItem(ctx context.Context, workspace string, q domain.Quadrant, in SWOTItemInput) (domain.SWOTItem, error) {
	item, err := newSWOTItem(newID(), in)
	if err != nil {
		return domain.SWOTItem{}, err
	}

	_, err = s.state.Update(ctx, workspace, func(a *domain.SWOTAnalysis) error {
		a.SetItems(q, append(a.Items(q), item))
		refreshStrategies(a)
		return nil
	})
	if err != nil {
		return domain.SWOTItem{}, err
	}

	return item, nil
}

// UpdateItem replaces the editable fields of item id in quadrant q.
func (s *SWOTService) UpdateItem(ctx context.Context, workspace string, q domain.Quadrant, id string, in SWOTItemInput) (domain.SWOTItem, error) {
	updated, err := newSWOTItem(id, in)
	if err != nil {
		return domain.SWOTItem{}, err
	}

	_, err = s.state.Update(ctx, workspace, func(a *domain.SWOTAnalysis) error {
		items := a.Items(q)
		for i := range items {
			if items[i].ID == id {
				items[i] = updated
				refreshStrategies(a)
				return nil
			}
		}

		return domain.NewNotFoundError("swot item", id)
	})
	if err != nil {
		return domain.SWOTItem{}, err
	}

	return updated, nil
}

// DeleteItem removes item id from quadrant q.
func (s *SWOTService) DeleteItem(ctx context.Context, workspace string, q domain.Quadrant, id string) error {
	_, err := s.state.Update(ctx, workspace, func(a *domain.SWOTAnalysis) error {
		items := a.Items(q)
		for i := range items {
			if items[i].ID == id {
				a.SetItems(q, append(items[:i:i], items[i+1:]...))
				refreshStrategies(a)
				return nil
			}
		}

		return domain.NewNotFoundError("swot item", id)
	})

	return err
}

// GenerateStrategies derives strategies from the stored worksheet and keeps them with it.
func (s *SWOTService) GenerateStrategies(ctx context.Context, workspace string) ([]domain.Strategy, error) {
	ctx, span := telemetry.StartSpan(ctx, "swot.generate_strategies", attribute.String("workspace", workspace))
	defer span.End()

	a, err := s.state.Update(ctx, workspace, func(a *domain.SWOTAnalysis) error {
		a.Strategies = strategiesFor(*a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	for _, st := range a.Strategies {
		logger.Log(ctx, logging.LevelTrace, "strategy generated", slog.String("strategy_id", st.ID))
	}

	span.SetAttributes(attribute.Int("strategies", len(a.Strategies)))
	s.deps.Metrics.StrategiesGenerated(len(a.Strategies))

	return a.Strategies, nil
}

// Summary counts the stored worksheet.
func (s *SWOTService) Summary(ctx context.Context, workspace string) (domain.SWOTSummary, error) {
	a, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.SWOTSummary{}, err
	}

	return domain.Summarize(a), nil
}

// Export renders the worksheet as a JSON download.
func (s *SWOTService) Export(ctx context.Context, workspace string) (domain.Export, error) {
	a, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.Export{}, err
	}

	return s.exports.JSON(ctx, workspace, "swot-analysis", a)
}

type swotImport struct {
	workspace string
	raw       []byte
	decoded   domain.SWOTAnalysis
	clean     domain.SWOTAnalysis
}

// Import replaces the worksheet with a previously exported document. Items
// keep their ids, so an export followed by an import reproduces the same items.
func (s *SWOTService) Import(ctx context.Context, workspace string, raw []byte) (domain.SWOTAnalysis, error) {
	op := Operation[*swotImport, domain.SWOTAnalysis]{
		Name: "swot.import",
		Validate: func(_ context.Context, in *swotImport) error {
			if err := json.Unmarshal(in.raw, &in.decoded); err != nil {
				return domain.NewValidationError("body", "not a SWOT analysis document: "+err.Error())
			}
			for _, it := range in.decoded.AllItems() {
				if strings.TrimSpace(it.ID) == "" {
					return domain.NewValidationError("id", "every imported item needs an id")
				}
			}

			if err := uniqueIDs(swotIDs(in.decoded)); err != nil {
				return err
			}

			var err error
			in.clean, err = normalizeSWOT(in.decoded)

			return err
		},
		Perform: func(_ context.Context, in *swotImport) (domain.SWOTAnalysis, error) {
			return in.clean, nil
		},
		Verify: func(_ context.Context, in *swotImport, a domain.SWOTAnalysis) error {
			if !sameIDs(swotIDs(in.decoded), swotIDs(a)) {
				return errors.New("imported item set changed during normalization")
			}

			return nil
		},
		Archive: func(ctx context.Context, in *swotImport, a domain.SWOTAnalysis) error {
			return s.state.Save(ctx, in.workspace, a)
		},
	}

	return Execute(ctx, s.executor, op, &swotImport{workspace: workspace, raw: raw})
}

func newSWOTItem(id string, in SWOTItemInput) (domain.SWOTItem, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.SWOTItem{}, domain.NewValidationError("text", "is required")
	}

	priority, err := levelOrDefault("priority", in.Priority)
	if err != nil {
		return domain.SWOTItem{}, err
	}

	impact, err := levelOrDefault("impact", in.Impact)
	if err != nil {
		return domain.SWOTItem{}, err
	}

	return domain.SWOTItem{ID: id, Text: text, Priority: priority, Impact: impact}, nil
}

// levelOrDefault accepts an empty level as medium and rejects unknown ones.
func levelOrDefault(field string, l domain.Level) (domain.Level, error) {
	if l == "" {
		return domain.LevelMedium, nil
	}
	if !l.Valid() {
		return "", domain.NewValidationErrorWithValue(field, "must be high, medium or low", string(l))
	}

	return l, nil
}

// normalizeSWOT fills missing ids and levels and regenerates any strategies
// the document carries.
func normalizeSWOT(a domain.SWOTAnalysis) (domain.SWOTAnalysis, error) {
	out := domain.SWOTAnalysis{Strategies: a.Strategies}
	for _, q := range []domain.Quadrant{
		domain.QuadrantStrengths, domain.QuadrantWeaknesses,
		domain.QuadrantOpportunities, domain.QuadrantThreats,
	} {
		items := make([]domain.SWOTItem, 0, len(a.Items(q)))
		for i, it := range a.Items(q) {
			var err error
			if it.Priority, err = levelOrDefault(fmt.Sprintf("%s[%d].priority", q, i), it.Priority); err != nil {
				return domain.SWOTAnalysis{}, err
			}
			if it.Impact, err = levelOrDefault(fmt.Sprintf("%s[%d].impact", q, i), it.Impact); err != nil {
				return domain.SWOTAnalysis{}, err
			}
			it.ID = idOrNew(it.ID)
			it.Text = strings.TrimSpace(it.Text)
			items = append(items, it)
		}
		out.SetItems(q, items)
	}
	refreshStrategies(&out)

	return out, nil
}

// refreshStrategies keeps stored strategies in step with the items. A nil
// list means strategies were never generated and stays nil.
func refreshStrategies(a *domain.SWOTAnalysis) {
	if a.Strategies != nil {
		a.Strategies = strategiesFor(*a)
	}
}

func strategiesFor(a domain.SWOTAnalysis) []domain.Strategy {
	if s := domain.GenerateStrategies(a); s != nil {
		return s
	}

	return []domain.Strategy{}
}

func swotIDs(a domain.SWOTAnalysis) []string {
	items := a.AllItems()
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	set := make(map[string]int, len(a))
	for _, id := range a {
		set[id]++
	}
	for _, id := range b {
		set[id]--
		if set[id] < 0 {
			return false
		}
	}

	return true
}
