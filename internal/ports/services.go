// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// StateStore persists one JSON document per (workspace, key) pair.
// Every Save replaces the whole document.
//
// Example usage in application layer:
//
//	raw, err := store.Load(ctx, workspace, "swotAnalysisData")
//	if domain.IsNotFound(err) {
//	    // start from an empty worksheet
//	}
type StateStore interface {
	// Load returns the stored document.
	// Returns domain.ErrNotFound if nothing is stored under key.
	Load(ctx context.Context, workspace, key string) ([]byte, error)

	// Save stores payload under key, replacing any previous value.
	Save(ctx context.Context, workspace, key string, payload []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, workspace, key string) error

	// Keys lists the keys stored for workspace in lexical order.
	Keys(ctx context.Context, workspace string) ([]string, error)
}

// BlobObject describes an archived export.
type BlobObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// BlobStore archives rendered exports.
type BlobStore interface {
	// Put stores data under key.
	Put(ctx context.Context, key, contentType string, data []byte) error

	// Get returns the stored bytes.
	// Returns domain.ErrNotFound if key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns objects whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]BlobObject, error)
}

// Catalog provides the read-only reference data.
// Implementations load once at startup and never mutate what they return.
type Catalog interface {
	Grants(ctx context.Context) ([]domain.Grant, error)
	Investors(ctx context.Context) ([]domain.Investor, error)
	Tools(ctx context.Context) ([]domain.Tool, error)
	LegalStructures(ctx context.Context) ([]domain.LegalStructure, error)
	ContractTemplates(ctx context.Context) ([]domain.ContractTemplate, error)
	Guides(ctx context.Context) ([]domain.Guide, error)
}

// RegulatoryFeed supplies regulatory updates for the compliance tracker.
type RegulatoryFeed interface {
	// Updates returns the current notices.
	// Returns domain.ErrUnavailable if the upstream cannot be reached.
	Updates(ctx context.Context) ([]domain.RegulatoryUpdate, error)
}

// DocumentRenderer turns a document into downloadable bytes.
type DocumentRenderer interface {
	// Format reports the file type Render produces.
	Format() domain.ExportFormat

	// Render returns the encoded document.
	Render(ctx context.Context, doc domain.Document) ([]byte, error)
}

// Clock abstracts time so date-dependent behavior is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

// Now returns the fixed time.
func (c FixedClock) Now() time.Time { return c.T }
