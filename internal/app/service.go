// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Load and persist workspace state around pure domain rules
//   - Coordinate between domain and infrastructure
//   - Handle cross-cutting concerns (logging, metrics, tracing)
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Database queries (that's persistence adapters)
//   - Scoring and filtering rules (that's the domain layer)
package app

import (
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/startup-toolkit/internal/platform/metrics"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// Deps are the dependencies shared by every tool service.
type Deps struct {
	Store   ports.StateStore
	Clock   ports.Clock
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Seed makes simulators reproducible. Zero seeds from the clock.
	Seed int64
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}

	return d.Clock.Now().UTC()
}

func (d Deps) logger(component string) *slog.Logger {
	return loggerOrDefault(d.Logger).With(slog.String("component", component))
}

// rng returns a generator for one simulation. With a configured seed the
// stream depends only on the seed and salt.
func (d Deps) rng(salt string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(salt))

	seed := uint64(d.Seed) //nolint:gosec // seed bits are reinterpreted, not truncated
	if seed == 0 {
		seed = uint64(d.now().UnixNano()) //nolint:gosec // same
	}

	return rand.New(rand.NewPCG(seed, h.Sum64())) //nolint:gosec // simulations are not security sensitive
}

func newID() string {
	return uuid.NewString()
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}

	return l
}
