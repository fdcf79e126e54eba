package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// Name generator flags. The style and count values fill in requests that
// leave them out.
const (
	FlagNameGenerator = "name-generator"
	FlagNameStyle     = "name-style"
	FlagNameCount     = "name-count"
)

// NameService is the simulated business name generator.
type NameService struct {
	deps   Deps
	flags  ports.FeatureFlags
	delay  time.Duration
	logger *slog.Logger
}

// NewNameService creates a name service. delay imitates model latency.
func NewNameService(deps Deps, flags ports.FeatureFlags, delay time.Duration) *NameService {
	return &NameService{
		deps:   deps,
		flags:  flags,
		delay:  delay,
		logger: deps.logger("app.NameService"),
	}
}

// Generate returns name suggestions after the configured delay. Cancelling
// ctx during the delay returns the context error.
func (s *NameService) Generate(ctx context.Context, req domain.NameRequest) ([]domain.NameSuggestion, error) {
	if !s.flags.IsEnabled(ctx, FlagNameGenerator, true) {
		return nil, domain.NewForbiddenError("generate names", "feature disabled")
	}

	if req.Style == "" {
		req.Style = domain.NameStyle(s.flags.GetString(ctx, FlagNameStyle, string(domain.StyleModern)))
	}
	if req.Count == 0 {
		req.Count = s.flags.GetInt(ctx, FlagNameCount, domain.DefaultNameCount)
	}

	ctx, span := telemetry.StartSpan(ctx, "names.generate", attribute.String("style", string(req.Style)))
	defer span.End()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	salt := "names:" + strings.ToLower(strings.Join(req.Keywords, ",")) + ":" + req.Industry + ":" + string(req.Style)

	names, err := domain.GenerateNames(req, s.deps.rng(salt))
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.Simulation("names")
	span.SetAttributes(attribute.Int("names", len(names)))
	s.logger.DebugContext(ctx, "names generated", slog.Int("count", len(names)))

	return names, nil
}
