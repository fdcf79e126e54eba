package context

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// SaveStateAction replaces one state document. Rollback restores the
// document that was stored before Execute, or removes the key if there was none.
type SaveStateAction struct {
	Store     ports.StateStore
	Workspace string
	Key       string
	Payload   []byte

	previous []byte
	existed  bool
}

// Execute snapshots the current document and writes Payload.
func (a *SaveStateAction) Execute(ctx context.Context) error {
	prev, err := a.Store.Load(ctx, a.Workspace, a.Key)
	switch {
	case err == nil:
		a.previous, a.existed = prev, true
	case domain.IsNotFound(err):
		a.previous, a.existed = nil, false
	default:
		return fmt.Errorf("snapshot %s: %w", a.Key, err)
	}

	return a.Store.Save(ctx, a.Workspace, a.Key, a.Payload)
}

// Rollback restores the snapshot taken by Execute.
func (a *SaveStateAction) Rollback(ctx context.Context) error {
	if a.existed {
		return a.Store.Save(ctx, a.Workspace, a.Key, a.previous)
	}

	return a.Store.Delete(ctx, a.Workspace, a.Key)
}

// Description returns a human-readable description for logging.
func (a *SaveStateAction) Description() string {
	return "save " + a.Workspace + "/" + a.Key
}

// DeleteStateAction removes one state document. Rollback puts it back.
type DeleteStateAction struct {
	Store     ports.StateStore
	Workspace string
	Key       string

	previous []byte
	existed  bool
}

// Execute snapshots and deletes the document.
func (a *DeleteStateAction) Execute(ctx context.Context) error {
	prev, err := a.Store.Load(ctx, a.Workspace, a.Key)
	switch {
	case err == nil:
		a.previous, a.existed = prev, true
	case domain.IsNotFound(err):
		return nil
	default:
		return fmt.Errorf("snapshot %s: %w", a.Key, err)
	}

	return a.Store.Delete(ctx, a.Workspace, a.Key)
}

// Rollback restores the deleted document.
func (a *DeleteStateAction) Rollback(ctx context.Context) error {
	if !a.existed {
		return nil
	}

	return a.Store.Save(ctx, a.Workspace, a.Key, a.previous)
}

// Description returns a human-readable description for logging.
func (a *DeleteStateAction) Description() string {
	return "delete " + a.Workspace + "/" + a.Key
}
