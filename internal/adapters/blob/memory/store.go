// Package memory implements an in-process export archive.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

var _ ports.BlobStore = (*Store)(nil)

type object struct {
	info ports.BlobObject
	data []byte
}

// Store keeps archived exports in memory. Putting an existing key overwrites it.
type Store struct {
	mu   sync.RWMutex
	objs map[string]object
	now  func() time.Time
}

// New returns an empty archive.
func New() *Store {
	return &Store{objs: make(map[string]object), now: time.Now}
}

// Put stores a copy of data.
func (s *Store) Put(_ context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objs[key] = object{
		info: ports.BlobObject{
			Key:          key,
			Size:         int64(len(data)),
			ContentType:  contentType,
			LastModified: s.now().UTC(),
		},
		data: slices.Clone(data),
	}

	return nil
}

// Get returns a copy of the stored bytes.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objs[key]
	if !ok {
		return nil, domain.NewNotFoundError("archived export", key)
	}

	return slices.Clone(obj.data), nil
}

// List returns objects under prefix sorted by key.
func (s *Store) List(_ context.Context, prefix string) ([]ports.BlobObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []ports.BlobObject{}
	for k, obj := range s.objs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, obj.info)
		}
	}
	slices.SortFunc(out, func(a, b ports.BlobObject) int { return strings.Compare(a.Key, b.Key) })

	return out, nil
}
