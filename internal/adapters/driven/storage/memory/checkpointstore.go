package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore keeps indexing checkpoints for the life of the process.
type CheckpointStore struct {
	mu          sync.RWMutex
	checkpoints map[string]domain.IndexCheckpoint
}

// NewCheckpointStore creates an empty checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{checkpoints: make(map[string]domain.IndexCheckpoint)}
}

// Get returns a copy of the checkpoint for key, or domain.ErrNotFound.
func (s *CheckpointStore) Get(_ context.Context, key string) (*domain.IndexCheckpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.checkpoints[key]
	if !ok {
		return nil, fmt.Errorf("%w: checkpoint %s", domain.ErrNotFound, key)
	}
	return &cp, nil
}

// Save creates or replaces the checkpoint for cp.Key.
func (s *CheckpointStore) Save(_ context.Context, cp domain.IndexCheckpoint) error {
	if cp.Key == "" {
		return fmt.Errorf("%w: checkpoint key is required", domain.ErrInvalidInput)
	}
	if cp.RunID == "" {
		cp.RunID = uuid.NewString()
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[cp.Key] = cp
	return nil
}

// Delete removes the checkpoint for key.
func (s *CheckpointStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkpoints, key)
	return nil
}

// DeleteNamespace removes every checkpoint recorded for namespace.
func (s *CheckpointStore) DeleteNamespace(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, cp := range s.checkpoints {
		if cp.Namespace == namespace {
			delete(s.checkpoints, key)
		}
	}
	return nil
}

// Close is a no-op.
func (s *CheckpointStore) Close() error {
	return nil
}
