// Package qdrant provides a vector index adapter backed by a Qdrant
// collection over gRPC. Namespaces are stored as a keyword payload field
// so several namespaces share one collection.
package qdrant

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 6334
	DefaultCollection = "lpdp-pencairan"

	// maxNamespaces bounds the facet request used by Stats.
	maxNamespaces = 1000
)

// Payload fields added next to the chunk metadata.
const (
	FieldNamespace = "namespace"
	FieldChunkID   = "chunk_id"
)

// Config holds configuration for the Qdrant index.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool

	// Collection is the collection to use or create (default: lpdp-pencairan).
	Collection string

	// Dimension of stored vectors (default: 768).
	Dimension int

	// BatchSize is the number of points per upsert request (default: 100).
	BatchSize int
}

// pointsClient is the subset of *qdrant.Client the index uses.
type pointsClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Delete(ctx context.Context, request *qdrant.DeletePoints) (*qdrant.UpdateResult, error)
	Facet(ctx context.Context, request *qdrant.FacetCounts) ([]*qdrant.FacetHit, error)
	Close() error
}

// Index stores chunk vectors in one Qdrant collection.
type Index struct {
	client pointsClient
	cfg    Config
}

// New creates a Qdrant client. The connection is established lazily on the
// first call.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,

		PoolSize:               1,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant: connect to %s:%d: %w", domain.ErrProvider, cfg.Host, cfg.Port, err)
	}
	return newIndex(client, cfg), nil
}

func newIndex(client pointsClient, cfg Config) *Index {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = domain.DefaultDimension
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = driven.DefaultBatchSize
	}
	return &Index{client: client, cfg: cfg}
}

// EnsureCollection creates the collection and its namespace index if missing.
func (idx *Index) EnsureCollection(ctx context.Context) error {
	exists, err := idx.client.CollectionExists(ctx, idx.cfg.Collection)
	if err != nil {
		return fmt.Errorf("%w: qdrant: check collection: %w", domain.ErrProvider, err)
	}

	if exists {
		info, err := idx.client.GetCollectionInfo(ctx, idx.cfg.Collection)
		if err != nil {
			return fmt.Errorf("%w: qdrant: collection info: %w", domain.ErrProvider, err)
		}
		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != 0 && int(size) != idx.cfg.Dimension {
			return fmt.Errorf("%w: qdrant collection %s has dimension %d, want %d",
				domain.ErrConfiguration, idx.cfg.Collection, size, idx.cfg.Dimension)
		}
		logger.Debug("Qdrant collection %s exists", idx.cfg.Collection)
		return nil
	}

	logger.Info("Creating Qdrant collection %s (dimension %d, cosine)", idx.cfg.Collection, idx.cfg.Dimension)
	err = idx.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: idx.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(idx.cfg.Dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: qdrant: create collection: %w", domain.ErrProvider, err)
	}

	_, err = idx.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: idx.cfg.Collection,
		Wait:           qdrant.PtrOf(true),
		FieldName:      FieldNamespace,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("%w: qdrant: index namespace field: %w", domain.ErrProvider, err)
	}
	return nil
}

// PointID derives a stable point UUID for a chunk id within a namespace.
func PointID(namespace, chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace+"/"+chunkID)).String()
}

// Upsert writes vectors in batches of the configured size.
func (idx *Index) Upsert(ctx context.Context, vectors []domain.IndexedVector, namespace string) (domain.UpsertResult, error) {
	if err := vector.CheckDimensions(vectors, idx.cfg.Dimension); err != nil {
		return domain.UpsertResult{}, err
	}

	result, err := vector.UpsertBatches(vectors, idx.cfg.BatchSize, func(batch []domain.IndexedVector) error {
		points := make([]*qdrant.PointStruct, len(batch))
		for i, v := range batch {
			payload := v.Metadata.Map()
			payload[FieldNamespace] = namespace
			payload[FieldChunkID] = v.ID
			points[i] = &qdrant.PointStruct{
				Id:      qdrant.NewID(PointID(namespace, v.ID)),
				Vectors: qdrant.NewVectorsDense(v.Values),
				Payload: qdrant.NewValueMap(payload),
			}
		}
		_, err := idx.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: idx.cfg.Collection,
			Wait:           qdrant.PtrOf(true),
			Points:         points,
		})
		if err != nil {
			return fmt.Errorf("%w: qdrant: upsert: %w", domain.ErrProvider, err)
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	logger.Debug("Upserted %d points in %d batches to namespace %q", result.TotalVectors, result.Batches, namespace)
	return result, nil
}

// Query returns the nearest points in the namespace.
func (idx *Index) Query(ctx context.Context, q domain.VectorQuery) ([]domain.RetrievedMatch, error) {
	if len(q.Vector) != idx.cfg.Dimension {
		return nil, fmt.Errorf("%w: %w: query has %d values, index has %d",
			domain.ErrInvalidInput, domain.ErrDimensionMismatch, len(q.Vector), idx.cfg.Dimension)
	}
	if err := q.Filter.Validate(); err != nil {
		return nil, err
	}

	points, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.cfg.Collection,
		Query:          qdrant.NewQueryDense(q.Vector),
		Filter:         FilterExpression(q.Namespace, q.Filter),
		Limit:          qdrant.PtrOf(uint64(max(q.TopK, 0))),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant: query: %w", domain.ErrProvider, err)
	}

	matches := make([]domain.RetrievedMatch, len(points))
	for i, p := range points {
		match := domain.RetrievedMatch{
			ID:    p.GetPayload()[FieldChunkID].GetStringValue(),
			Score: float64(p.GetScore()),
		}
		if match.ID == "" {
			match.ID = p.GetId().GetUuid()
		}
		if q.IncludeMetadata {
			match.Metadata = decodePayload(p.GetPayload())
			match.Content = match.Metadata.Content
		}
		matches[i] = match
	}
	return matches, nil
}

// DeleteNamespace removes every point tagged with namespace.
func (idx *Index) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := idx.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: idx.cfg.Collection,
		Wait:           qdrant.PtrOf(true),
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(FieldNamespace, namespace)},
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: qdrant: delete namespace %q: %w", domain.ErrProvider, namespace, err)
	}
	return nil
}

// Stats reports collection size and per-namespace point counts.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	info, err := idx.client.GetCollectionInfo(ctx, idx.cfg.Collection)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("%w: qdrant: collection info: %w", domain.ErrProvider, err)
	}

	hits, err := idx.client.Facet(ctx, &qdrant.FacetCounts{
		CollectionName: idx.cfg.Collection,
		Key:            FieldNamespace,
		Limit:          qdrant.PtrOf(uint64(maxNamespaces)),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("%w: qdrant: count namespaces: %w", domain.ErrProvider, err)
	}

	stats := domain.IndexStats{
		Dimension:        int(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()),
		TotalVectorCount: int(info.GetPointsCount()),
		Namespaces:       make(map[string]int, len(hits)),
	}
	for _, hit := range hits {
		stats.Namespaces[hit.GetValue().GetStringValue()] = int(hit.GetCount())
	}
	return stats, nil
}

// Close closes the gRPC connection.
func (idx *Index) Close() error {
	return idx.client.Close()
}

// FilterExpression converts a filter to a Qdrant filter scoped to namespace.
func FilterExpression(namespace string, f domain.Filter) *qdrant.Filter {
	out := &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch(FieldNamespace, namespace)},
	}
	for _, c := range f {
		cond := condition(c)
		if c.Op == domain.OpNe {
			out.MustNot = append(out.MustNot, cond)
			continue
		}
		out.Must = append(out.Must, cond)
	}
	return out
}

// condition builds the positive form of c; OpNe is negated by the caller.
func condition(c domain.Condition) *qdrant.Condition {
	if s, ok := c.Value.(string); ok {
		return qdrant.NewMatch(c.Field, s)
	}

	n, _ := domain.AsNumber(c.Value)
	switch c.Op {
	case domain.OpGt:
		return qdrant.NewRange(c.Field, &qdrant.Range{Gt: &n})
	case domain.OpGte:
		return qdrant.NewRange(c.Field, &qdrant.Range{Gte: &n})
	case domain.OpLt:
		return qdrant.NewRange(c.Field, &qdrant.Range{Lt: &n})
	case domain.OpLte:
		return qdrant.NewRange(c.Field, &qdrant.Range{Lte: &n})
	}

	if n == math.Trunc(n) {
		return qdrant.NewMatchInt(c.Field, int64(n))
	}
	return qdrant.NewRange(c.Field, &qdrant.Range{Gte: &n, Lte: &n})
}

func decodePayload(p map[string]*qdrant.Value) domain.VectorMetadata {
	num := func(key string) int {
		v := p[key]
		if i := v.GetIntegerValue(); i != 0 {
			return int(i)
		}
		return int(v.GetDoubleValue())
	}
	return domain.VectorMetadata{
		Content:    p[domain.FieldContent].GetStringValue(),
		Source:     p[domain.FieldSource].GetStringValue(),
		PageNumber: num(domain.FieldPageNumber),
		Section:    p[domain.FieldSection].GetStringValue(),
		ChunkIndex: num(domain.FieldChunkIndex),
	}
}
