package driving

import (
	"context"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// IndexStage names a step of the indexing pipeline.
type IndexStage string

// Indexing stages, in order.
const (
	StageLoad   IndexStage = "load"
	StageChunk  IndexStage = "chunk"
	StageEmbed  IndexStage = "embed"
	StageUpsert IndexStage = "upsert"
)

// ProgressFunc is called as work in a stage completes.
type ProgressFunc func(stage IndexStage, done, total int)

// IndexOptions configures an indexing run.
type IndexOptions struct {
	// Namespace is the index partition to write into.
	Namespace string

	// Resume skips batches a previous run of the same file already committed.
	Resume bool

	// Progress receives stage updates. May be nil.
	Progress ProgressFunc
}

// IndexService builds and maintains the vector index.
type IndexService interface {
	// Index loads, chunks, embeds and upserts a PDF.
	Index(ctx context.Context, path string, opts IndexOptions) (domain.IndexReport, error)

	// Stats returns the current index statistics.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// DeleteNamespace removes every vector in namespace.
	DeleteNamespace(ctx context.Context, namespace string) error
}

// SettingsService resolves the effective configuration.
type SettingsService interface {
	// Get returns stored settings overlaid with environment overrides.
	Get() (domain.Settings, error)

	// Set stores one setting by dotted key.
	Set(key string, value any) error
}
