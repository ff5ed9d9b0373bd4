package driven

import (
	"context"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// DefaultBatchSize is the number of vectors sent in one upsert request.
const DefaultBatchSize = 100

// VectorIndex stores vectors with metadata and answers similarity queries.
//
// Entries are partitioned by namespace. Upserts are not transactional: when
// batch N fails, batches 1..N-1 stay committed and the error says how many.
//
// Implementations:
//   - Pinecone serverless (REST)
//   - Qdrant (gRPC)
//   - In-memory brute force
type VectorIndex interface {
	// EnsureCollection creates the index with the configured dimension and
	// metric if it does not exist. It is idempotent.
	EnsureCollection(ctx context.Context) error

	// Upsert writes vectors into namespace in batches of DefaultBatchSize,
	// one remote write per batch, in input order.
	Upsert(ctx context.Context, vectors []domain.IndexedVector, namespace string) (domain.UpsertResult, error)

	// Query returns up to q.TopK nearest entries in q.Namespace that satisfy
	// q.Filter, ordered by descending score.
	Query(ctx context.Context, q domain.VectorQuery) ([]domain.RetrievedMatch, error)

	// DeleteNamespace irreversibly removes every entry in namespace.
	DeleteNamespace(ctx context.Context, namespace string) error

	// Stats returns vector totals overall and per namespace.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
