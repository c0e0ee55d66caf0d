// Package store keeps the last verdict of every symbol between scans so the
// scanner can detect Buy/Sell transitions. The engine itself stays stateless.
package store

import (
	"context"
	"sync"

	"TrendSentinel/internal/model"
)

// Store is an externally owned key-value store of verdicts keyed by symbol.
type Store interface {
	// Get returns the stored verdict of symbol, if any.
	Get(ctx context.Context, symbol string) (model.Verdict, bool, error)
	// Put replaces the stored verdict of symbol.
	Put(ctx context.Context, symbol string, v model.Verdict) error
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	verdicts map[string]model.Verdict
}

// Ensure the MemoryStore implements the Store interface.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{verdicts: make(map[string]model.Verdict)}
}

func (s *MemoryStore) Get(_ context.Context, symbol string) (model.Verdict, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verdicts[symbol]
	return v, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, symbol string, v model.Verdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[symbol] = v
	return nil
}

// Snapshot returns a copy of every stored verdict.
func (s *MemoryStore) Snapshot() map[string]model.Verdict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Verdict, len(s.verdicts))
	for k, v := range s.verdicts {
		out[k] = v
	}
	return out
}
