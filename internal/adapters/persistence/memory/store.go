// Package memory provides an in-process state store. Contents are lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

var _ ports.StateStore = (*Store)(nil)

// Store keeps documents in a map guarded by a mutex.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]map[string][]byte)}
}

// Load returns a copy of the stored document.
func (s *Store) Load(_ context.Context, workspace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[workspace][key]
	if !ok {
		return nil, domain.NewNotFoundError("state "+key, "")
	}

	return slices.Clone(v), nil
}

// Save stores a copy of payload.
func (s *Store) Save(_ context.Context, workspace, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.data[workspace]
	if !ok {
		ws = make(map[string][]byte)
		s.data[workspace] = ws
	}
	ws[key] = slices.Clone(payload)

	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, workspace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[workspace], key)
	if len(s.data[workspace]) == 0 {
		delete(s.data, workspace)
	}

	return nil
}

// Keys lists the keys of workspace in lexical order.
func (s *Store) Keys(_ context.Context, workspace string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data[workspace]))
	for k := range s.data[workspace] {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys, nil
}
