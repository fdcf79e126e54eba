package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/metrics"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// State keys. Each tool keeps its whole state tree under one key.
const (
	KeySWOT           = "swotAnalysisData"
	KeyCanvas         = "valuePropositionCanvas"
	KeyLegal          = "legalStructureData"
	KeyCompliance     = "complianceHubData"
	KeyCampaigns      = "emailCampaignData"
	KeyContracts      = "contractDrafts"
	KeyGuide          = "guideProgress"
	KeyExperts        = "expertRegistrations"
	KeySavedGrants    = "savedGrants"
	KeySavedInvestors = "savedInvestors"
	KeySavedTools     = "savedTools"
)

// StateKeys lists every key a workspace may hold.
var StateKeys = []string{
	KeySWOT, KeyCanvas, KeyLegal, KeyCompliance, KeyCampaigns, KeyContracts,
	KeyGuide, KeyExperts, KeySavedGrants, KeySavedInvestors, KeySavedTools,
}

// stateSlot reads and writes one typed state document.
type stateSlot[T any] struct {
	store   ports.StateStore
	metrics *metrics.Metrics
	key     string
}

func newSlot[T any](store ports.StateStore, m *metrics.Metrics, key string) stateSlot[T] {
	return stateSlot[T]{store: store, metrics: m, key: key}
}

// Load returns the stored document, or the zero value when nothing is stored.
// Unknown fields are ignored; a document that does not decode is a
// MalformedStateError.
func (s stateSlot[T]) Load(ctx context.Context, workspace string) (T, error) {
	var v T

	raw, err := s.store.Load(ctx, workspace, s.key)
	if domain.IsNotFound(err) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("loading %s: %w", s.key, err)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		s.metrics.StateMalformed(s.key)
		logging.FromContext(ctx).WarnContext(ctx, "stored state is malformed",
			slog.String("key", s.key),
			slog.Any("error", err),
		)

		var zero T
		return zero, domain.NewMalformedStateError(s.key, err)
	}

	return v, nil
}

// Save replaces the stored document.
func (s stateSlot[T]) Save(ctx context.Context, workspace string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.key, err)
	}

	if err := s.store.Save(ctx, workspace, s.key, raw); err != nil {
		return fmt.Errorf("saving %s: %w", s.key, err)
	}

	s.metrics.StateWrite(s.key)

	return nil
}

// Update loads, applies fn and saves. fn returning an error aborts the write.
func (s stateSlot[T]) Update(ctx context.Context, workspace string, fn func(*T) error) (T, error) {
	v, err := s.Load(ctx, workspace)
	if err != nil {
		return v, err
	}

	if err := fn(&v); err != nil {
		return v, err
	}

	return v, s.Save(ctx, workspace, v)
}
