package driven

import (
	"context"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// CheckpointStore persists indexing progress so an interrupted upsert can
// resume after the last committed batch.
type CheckpointStore interface {
	// Get returns the checkpoint for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.IndexCheckpoint, error)

	// Save creates or replaces the checkpoint for cp.Key.
	Save(ctx context.Context, cp domain.IndexCheckpoint) error

	// Delete removes the checkpoint for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// DeleteNamespace removes every checkpoint of namespace, whatever
	// document it belongs to.
	DeleteNamespace(ctx context.Context, namespace string) error

	// Close releases resources.
	Close() error
}
