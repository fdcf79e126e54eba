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
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
)

// CanvasItemInput is a new canvas entry. Level is the importance of jobs and
// gains or the severity of pains. RefID links a reliever to a pain or a
// creator to a gain.
type CanvasItemInput struct {
	Name        string
	Description string
	Level       domain.Level
	RefID       string
}

// CanvasItem is the stored form of any canvas entry.
type CanvasItem struct {
	Section domain.CanvasSection `json:"section"`
	Item    any                  `json:"item"`
}

// CanvasService manages the Value Proposition Canvas.
type CanvasService struct {
	deps     Deps
	state    stateSlot[domain.Canvas]
	exports  *ExportService
	executor *Executor
}

// NewCanvasService creates a canvas service.
func NewCanvasService(deps Deps, exports *ExportService) *CanvasService {
	return &CanvasService{
		deps:     deps,
		state:    newSlot[domain.Canvas](deps.Store, deps.Metrics, KeyCanvas),
		exports:  exports,
		executor: NewExecutor(deps.logger("app.CanvasService")),
	}
}

// Get returns the stored canvas.
func (s *CanvasService) Get(ctx context.Context, workspace string) (domain.Canvas, error) {
	return s.state.Load(ctx, workspace)
}

// Replace stores a whole canvas. Missing ids are generated.
func (s *CanvasService) Replace(ctx context.Context, workspace string, c domain.Canvas) (domain.Canvas, error) {
	c, err := normalizeCanvas(c)
	if err != nil {
		return domain.Canvas{}, err
	}
	if err := uniqueIDs(c.IDs()); err != nil {
		return domain.Canvas{}, err
	}

	if err := s.state.Save(ctx, workspace, c); err != nil {
		return domain.Canvas{}, err
	}

	return c, nil
}

// AddItem appends an entry to section.
func (s *CanvasService) AddItem(ctx context.Context, workspace string, section domain.CanvasSection, in CanvasItemInput) (CanvasItem, error) {
	desc := strings.TrimSpace(in.Description)
	name := strings.TrimSpace(in.Name)
	if desc == "" && (section != domain.SectionProducts || name == "") {
		return CanvasItem{}, domain.NewValidationError("description", "is required")
	}

	level, err := levelOrDefault("level", in.Level)
	if err != nil {
		return CanvasItem{}, err
	}

	id := newID()
	out := CanvasItem{Section: section}

	_, err = s.state.Update(ctx, workspace, func(c *domain.Canvas) error {
		switch section {
		case domain.SectionJobs:
			v := domain.CustomerJob{ID: id, Description: desc, Importance: level}
			c.Jobs, out.Item = append(c.Jobs, v), v
		case domain.SectionPains:
			v := domain.CustomerPain{ID: id, Description: desc, Severity: level}
			c.Pains, out.Item = append(c.Pains, v), v
		case domain.SectionGains:
			v := domain.CustomerGain{ID: id, Description: desc, Importance: level}
			c.Gains, out.Item = append(c.Gains, v), v
		case domain.SectionProducts:
			v := domain.Product{ID: id, Name: name, Description: desc}
			c.Products, out.Item = append(c.Products, v), v
		case domain.SectionPainRelievers:
			v := domain.PainReliever{ID: id, Description: desc, PainID: in.RefID}
			c.PainRelievers, out.Item = append(c.PainRelievers, v), v
		case domain.SectionGainCreators:
			v := domain.GainCreator{ID: id, Description: desc, GainID: in.RefID}
			c.GainCreators, out.Item = append(c.GainCreators, v), v
		default:
			return domain.NewValidationErrorWithValue("section", "unknown canvas section", string(section))
		}

		return nil
	})
	if err != nil {
		return CanvasItem{}, err
	}

	return out, nil
}

// DeleteItem removes entry id from section. Relievers and creators that
// reference a deleted pain or gain keep their dangling reference.
func (s *CanvasService) DeleteItem(ctx context.Context, workspace string, section domain.CanvasSection, id string) error {
	_, err := s.state.Update(ctx, workspace, func(c *domain.Canvas) error {
		if !c.Remove(section, id) {
			return domain.NewNotFoundError("canvas "+string(section)+" item", id)
		}

		return nil
	})

	return err
}

// AnalyzeFit scores the stored canvas.
func (s *CanvasService) AnalyzeFit(ctx context.Context, workspace string) (domain.FitAnalysis, error) {
	ctx, span := telemetry.StartSpan(ctx, "canvas.analyze_fit", attribute.String("workspace", workspace))
	defer span.End()

	c, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.FitAnalysis{}, err
	}

	fa := domain.AnalyzeFit(c)

	span.SetAttributes(attribute.Int("fit.score", fa.Score), attribute.String("fit.rating", string(fa.Rating)))
	s.deps.Metrics.FitScore(fa.Score)
	s.deps.logger("app.CanvasService").DebugContext(ctx, "canvas fit analyzed",
		slog.Int("score", fa.Score),
		slog.String("rating", string(fa.Rating)),
	)

	return fa, nil
}

// Export renders the canvas as a JSON download.
func (s *CanvasService) Export(ctx context.Context, workspace string) (domain.Export, error) {
	c, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.Export{}, err
	}

	return s.exports.JSON(ctx, workspace, "value-proposition-canvas", c)
}

type canvasImport struct {
	workspace string
	raw       []byte
	decoded   domain.Canvas
	clean     domain.Canvas
}

// Import replaces the canvas with a previously exported document.
func (s *CanvasService) Import(ctx context.Context, workspace string, raw []byte) (domain.Canvas, error) {
	op := Operation[*canvasImport, domain.Canvas]{
		Name: "canvas.import",
		Validate: func(_ context.Context, in *canvasImport) error {
			if err := json.Unmarshal(in.raw, &in.decoded); err != nil {
				return domain.NewValidationError("body", "not a canvas document: "+err.Error())
			}
			for _, id := range in.decoded.IDs() {
				if strings.TrimSpace(id) == "" {
					return domain.NewValidationError("id", "every imported item needs an id")
				}
			}

			if err := uniqueIDs(in.decoded.IDs()); err != nil {
				return err
			}

			var err error
			in.clean, err = normalizeCanvas(in.decoded)

			return err
		},
		Perform: func(_ context.Context, in *canvasImport) (domain.Canvas, error) {
			return in.clean, nil
		},
		Verify: func(_ context.Context, in *canvasImport, c domain.Canvas) error {
			if !sameIDs(in.decoded.IDs(), c.IDs()) {
				return errors.New("imported item set changed during normalization")
			}

			return nil
		},
		Archive: func(ctx context.Context, in *canvasImport, c domain.Canvas) error {
			return s.state.Save(ctx, in.workspace, c)
		},
	}

	return Execute(ctx, s.executor, op, &canvasImport{workspace: workspace, raw: raw})
}

// normalizeCanvas fills missing ids and levels and replaces nil sections
// with empty ones so stored documents always carry every list. Unknown
// levels are rejected.
func normalizeCanvas(c domain.Canvas) (domain.Canvas, error) {
	out := domain.Canvas{
		Jobs:          make([]domain.CustomerJob, 0, len(c.Jobs)),
		Pains:         make([]domain.CustomerPain, 0, len(c.Pains)),
		Gains:         make([]domain.CustomerGain, 0, len(c.Gains)),
		Products:      make([]domain.Product, 0, len(c.Products)),
		PainRelievers: make([]domain.PainReliever, 0, len(c.PainRelievers)),
		GainCreators:  make([]domain.GainCreator, 0, len(c.GainCreators)),
	}

	var err error
	for i, v := range c.Jobs {
		if v.Importance, err = levelOrDefault(fmt.Sprintf("jobs[%d].importance", i), v.Importance); err != nil {
			return domain.Canvas{}, err
		}
		v.ID = idOrNew(v.ID)
		out.Jobs = append(out.Jobs, v)
	}
	for i, v := range c.Pains {
		if v.Severity, err = levelOrDefault(fmt.Sprintf("pains[%d].severity", i), v.Severity); err != nil {
			return domain.Canvas{}, err
		}
		v.ID = idOrNew(v.ID)
		out.Pains = append(out.Pains, v)
	}
	for i, v := range c.Gains {
		if v.Importance, err = levelOrDefault(fmt.Sprintf("gains[%d].importance", i), v.Importance); err != nil {
			return domain.Canvas{}, err
		}
		v.ID = idOrNew(v.ID)
		out.Gains = append(out.Gains, v)
	}
	for _, v := range c.Products {
		v.ID = idOrNew(v.ID)
		out.Products = append(out.Products, v)
	}
	for _, v := range c.PainRelievers {
		v.ID = idOrNew(v.ID)
		out.PainRelievers = append(out.PainRelievers, v)
	}
	for _, v := range c.GainCreators {
		v.ID = idOrNew(v.ID)
		out.GainCreators = append(out.GainCreators, v)
	}

	return out, nil
}

func idOrNew(id string) string {
	if strings.TrimSpace(id) == "" {
		return newID()
	}

	return id
}

func uniqueIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			return domain.NewValidationErrorWithValue("id", "item ids must be unique", id)
		}
		seen[id] = struct{}{}
	}

	return nil
}
