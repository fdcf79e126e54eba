package context

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Action is one staged write.
type Action interface {
	// Execute performs the write.
	Execute(ctx context.Context) error

	// Rollback undoes a successful Execute.
	Rollback(ctx context.Context) error

	// Description names the write in errors and logs.
	Description() string
}

// Batch collects actions and commits them together.
type Batch struct {
	mu        sync.Mutex
	actions   []Action
	committed bool
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Add stages action.
func (b *Batch) Add(action Action) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.committed {
		return ErrAlreadyCommitted
	}
	b.actions = append(b.actions, action)

	return nil
}

// Len returns the number of staged actions.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.actions)
}

// Descriptions lists the staged actions in commit order.
func (b *Batch) Descriptions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.actions))
	for i, a := range b.actions {
		out[i] = a.Description()
	}

	return out
}

// Commit runs every action in order. On the first failure the actions that
// ran are rolled back newest first and the batch stays uncommitted.
func (b *Batch) Commit(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.committed {
		return ErrAlreadyCommitted
	}

	for i, action := range b.actions {
		if err := ctx.Err(); err != nil {
			return errors.Join(fmt.Errorf("%s: %w", action.Description(), err), rollback(ctx, b.actions[:i]))
		}
		if err := action.Execute(ctx); err != nil {
			return errors.Join(fmt.Errorf("%s: %w", action.Description(), err), rollback(ctx, b.actions[:i]))
		}
	}

	b.committed = true

	return nil
}

func rollback(ctx context.Context, done []Action) error {
	// Undo must run even when ctx was the reason the commit stopped.
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		if err := done[i].Rollback(ctx); err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", done[i].Description(), err))
		}
	}

	return errors.Join(errs...)
}
