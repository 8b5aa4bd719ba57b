package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/store"
)

// Store keeps values in process memory.
// Data lives as long as the process, like a browser session.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty memory store
func New() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// Get retrieves the value stored under key
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

// Set replaces the value stored under key
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Update replaces the value under key while holding the write lock
func (s *Store) Update(_ context.Context, key string, fn store.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	next, err := fn(value, ok)
	if err != nil {
		return err
	}
	s.values[key] = next
	return nil
}

// Remove deletes key if present
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
