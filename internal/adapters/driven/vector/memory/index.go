// Package memory provides an in-process vector index using brute-force
// cosine similarity. Contents are lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores vectors in maps keyed by namespace and id.
type Index struct {
	mu         sync.RWMutex
	dimension  int
	batchSize  int
	created    bool
	namespaces map[string]map[string]domain.IndexedVector
	writes     int
}

// New creates an empty index of the given dimension.
func New(dimension int) *Index {
	if dimension <= 0 {
		dimension = domain.DefaultDimension
	}
	return &Index{
		dimension:  dimension,
		batchSize:  driven.DefaultBatchSize,
		namespaces: make(map[string]map[string]domain.IndexedVector),
	}
}

// EnsureCollection marks the index as created.
func (idx *Index) EnsureCollection(context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.created = true
	return nil
}

// Upsert stores vectors batch by batch, overwriting existing ids.
func (idx *Index) Upsert(ctx context.Context, vectors []domain.IndexedVector, namespace string) (domain.UpsertResult, error) {
	if err := vector.CheckDimensions(vectors, idx.dimension); err != nil {
		return domain.UpsertResult{}, err
	}

	return vector.UpsertBatches(vectors, idx.batchSize, func(batch []domain.IndexedVector) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx.mu.Lock()
		defer idx.mu.Unlock()
		if !idx.created {
			return fmt.Errorf("%w: index not created", domain.ErrNotFound)
		}
		ns, ok := idx.namespaces[namespace]
		if !ok {
			ns = make(map[string]domain.IndexedVector)
			idx.namespaces[namespace] = ns
		}
		for _, v := range batch {
			v.Values = append([]float32(nil), v.Values...)
			ns[v.ID] = v
		}
		idx.writes++
		return nil
	})
}

// Query scores every vector in the namespace and returns the best TopK.
func (idx *Index) Query(ctx context.Context, q domain.VectorQuery) ([]domain.RetrievedMatch, error) {
	if len(q.Vector) != idx.dimension {
		return nil, fmt.Errorf("%w: %w: query has %d values, index has %d",
			domain.ErrInvalidInput, domain.ErrDimensionMismatch, len(q.Vector), idx.dimension)
	}
	if err := q.Filter.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matches []domain.RetrievedMatch
	for _, v := range idx.namespaces[q.Namespace] {
		if !q.Filter.Matches(v.Metadata) {
			continue
		}
		m := domain.RetrievedMatch{ID: v.ID, Score: cosine(q.Vector, v.Values)}
		if q.IncludeMetadata {
			m.Content = v.Metadata.Content
			m.Metadata = v.Metadata
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if q.TopK > 0 && len(matches) > q.TopK {
		matches = matches[:q.TopK]
	}
	return matches, nil
}

// DeleteNamespace drops every vector in namespace.
func (idx *Index) DeleteNamespace(_ context.Context, namespace string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.namespaces, namespace)
	return nil
}

// Stats counts vectors per namespace.
func (idx *Index) Stats(context.Context) (domain.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	stats := domain.IndexStats{Dimension: idx.dimension, Namespaces: make(map[string]int, len(idx.namespaces))}
	for name, ns := range idx.namespaces {
		stats.Namespaces[name] = len(ns)
		stats.TotalVectorCount += len(ns)
	}
	return stats, nil
}

// Writes returns the number of batch writes performed.
func (idx *Index) Writes() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.writes
}

// Close releases nothing.
func (idx *Index) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
