// Package history persists the action log that recording and script
// generation read from.
package history

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"pagepilot/internal/domain"
)

// Store is an append-only action log. Entries come back in append order.
type Store interface {
	Append(ctx context.Context, entry domain.ActionEntry) error
	List(ctx context.Context) ([]domain.ActionEntry, error)
	Clear(ctx context.Context) error
	Close() error
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewID returns a sortable unique ID for history entries and recording
// sessions.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// MemoryStore keeps the action log in process memory. Used when no history
// path is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries []domain.ActionEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, entry domain.ActionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]domain.ActionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ActionEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

func (s *MemoryStore) Close() error { return nil }
