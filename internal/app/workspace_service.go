package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	appctx "github.com/jsamuelsen/startup-toolkit/internal/app/context"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// bundleReaders bounds concurrent state loads during a bundle export.
const bundleReaders = 4

// WorkspaceBundle carries every state document of a workspace.
type WorkspaceBundle struct {
	Workspace  string                     `json:"workspace"`
	ExportedAt time.Time                  `json:"exportedAt"`
	State      map[string]json.RawMessage `json:"state"`
}

// WorkspaceService moves whole workspaces in and out of the store.
type WorkspaceService struct {
	deps    Deps
	exports *ExportService
	logger  *slog.Logger
}

// NewWorkspaceService creates a workspace service.
func NewWorkspaceService(deps Deps, exports *ExportService) *WorkspaceService {
	return &WorkspaceService{
		deps:    deps,
		exports: exports,
		logger:  deps.logger("app.WorkspaceService"),
	}
}

// Keys lists the state keys the workspace holds.
func (s *WorkspaceService) Keys(ctx context.Context, workspace string) ([]string, error) {
	keys, err := s.deps.Store.Keys(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing state keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}

	return keys, nil
}

// Bundle collects every stored document of the workspace.
func (s *WorkspaceService) Bundle(ctx context.Context, workspace string) (WorkspaceBundle, error) {
	type entry struct {
		key string
		raw []byte
	}

	fns := make([]func(context.Context) (entry, error), 0, len(StateKeys))
	for _, key := range StateKeys {
		fns = append(fns, func(ctx context.Context) (entry, error) {
			raw, err := s.deps.Store.Load(ctx, workspace, key)
			if domain.IsNotFound(err) {
				return entry{key: key}, nil
			}
			if err != nil {
				return entry{}, fmt.Errorf("loading %s: %w", key, err)
			}

			return entry{key: key, raw: raw}, nil
		})
	}

	entries, err := ParallelLimit(ctx, bundleReaders, fns...)
	if err != nil {
		return WorkspaceBundle{}, err
	}

	b := WorkspaceBundle{
		Workspace:  workspace,
		ExportedAt: s.deps.now(),
		State:      make(map[string]json.RawMessage, len(entries)),
	}
	for _, e := range entries {
		if e.raw != nil {
			b.State[e.key] = json.RawMessage(e.raw)
		}
	}

	return b, nil
}

// Export renders the workspace bundle as a JSON download.
func (s *WorkspaceService) Export(ctx context.Context, workspace string) (domain.Export, error) {
	b, err := s.Bundle(ctx, workspace)
	if err != nil {
		return domain.Export{}, err
	}

	return s.exports.JSON(ctx, workspace, "workspace", b)
}

// Import writes every document of b into workspace. Either all documents
// are written or, on failure, the ones already written are restored.
func (s *WorkspaceService) Import(ctx context.Context, workspace string, b WorkspaceBundle) ([]string, error) {
	keys := make([]string, 0, len(b.State))
	docs := make(map[string]json.RawMessage, len(b.State))
	for key, raw := range b.State {
		if !slices.Contains(StateKeys, key) {
			return nil, domain.NewValidationErrorWithValue("state", "unknown state key", key)
		}
		if !json.Valid(raw) {
			return nil, domain.NewValidationErrorWithValue("state", "document is not valid JSON", key)
		}
		clean, err := normalizeDocument(key, raw)
		if err != nil {
			return nil, fmt.Errorf("importing %s: %w", key, err)
		}
		docs[key] = clean
		keys = append(keys, key)
	}
	slices.Sort(keys)

	batch := appctx.NewBatch()
	for _, key := range keys {
		if err := batch.Add(&appctx.SaveStateAction{
			Store:     s.deps.Store,
			Workspace: workspace,
			Key:       key,
			Payload:   docs[key],
		}); err != nil {
			return nil, err
		}
	}

	if err := batch.Commit(ctx); err != nil {
		s.logger.ErrorContext(ctx, "workspace import rolled back", slog.Any("error", err))
		return nil, fmt.Errorf("importing workspace: %w", err)
	}

	for _, key := range keys {
		s.deps.Metrics.StateWrite(key)
	}

	s.logger.InfoContext(ctx, "workspace imported", slog.Int("documents", len(keys)))

	return keys, nil
}

// Reset deletes every document of the workspace.
func (s *WorkspaceService) Reset(ctx context.Context, workspace string) error {
	keys, err := s.Keys(ctx, workspace)
	if err != nil {
		return err
	}

	batch := appctx.NewBatch()
	for _, key := range keys {
		if err := batch.Add(&appctx.DeleteStateAction{
			Store:     s.deps.Store,
			Workspace: workspace,
			Key:       key,
		}); err != nil {
			return err
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("resetting workspace: %w", err)
	}

	s.logger.InfoContext(ctx, "workspace reset", slog.Int("documents", len(keys)))

	return nil
}

// normalizeDocument applies the worksheet rules to the scored documents of
// a bundle. Other documents are stored as sent.
func normalizeDocument(key string, raw json.RawMessage) (json.RawMessage, error) {
	switch key {
	case KeySWOT:
		var a domain.SWOTAnalysis
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, domain.NewValidationErrorWithValue("state", "document does not match its tool: "+err.Error(), key)
		}
		a, err := normalizeSWOT(a)
		if err != nil {
			return nil, err
		}
		if err := uniqueIDs(swotIDs(a)); err != nil {
			return nil, err
		}

		return json.Marshal(a)
	case KeyCanvas:
		var c domain.Canvas
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, domain.NewValidationErrorWithValue("state", "document does not match its tool: "+err.Error(), key)
		}
		c, err := normalizeCanvas(c)
		if err != nil {
			return nil, err
		}
		if err := uniqueIDs(c.IDs()); err != nil {
			return nil, err
		}

		return json.Marshal(c)
	default:
		return raw, nil
	}
}
