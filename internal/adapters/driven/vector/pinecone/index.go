// Package pinecone provides a vector index adapter for Pinecone serverless
// indexes built on the official Go SDK.
package pinecone

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultIndexName = "lpdp-pencairan"
	DefaultMetric    = "cosine"
	DefaultCloud     = "aws"
	DefaultRegion    = "us-east-1"
	DefaultTimeout   = 30 * time.Second
	DefaultReadyPoll = 2 * time.Second
)

// Config holds configuration for the Pinecone index.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName is the index to use or create (default: lpdp-pencairan).
	IndexName string

	// Dimension of stored vectors (default: 768).
	Dimension int

	// Metric is the similarity metric used when creating the index (default: cosine).
	Metric string

	// Cloud and Region place a newly created serverless index.
	Cloud  string
	Region string

	// Host skips index discovery when set.
	Host string

	// BatchSize is the number of vectors per upsert request (default: 100).
	BatchSize int

	// Timeout bounds control plane requests (default: 30s).
	Timeout time.Duration

	// ReadyPoll is the wait between readiness checks after creating an index.
	ReadyPoll time.Duration
}

// controlPlane is the part of *pinecone.Client that manages indexes.
type controlPlane interface {
	DescribeIndex(ctx context.Context, idxName string) (*pinecone.Index, error)
	CreateServerlessIndex(ctx context.Context, in *pinecone.CreateServerlessIndexRequest) (*pinecone.Index, error)
}

// dataPlane is the part of *pinecone.IndexConnection the index uses.
// A connection is bound to one namespace.
type dataPlane interface {
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	DeleteAllVectorsInNamespace(ctx context.Context) error
	DescribeIndexStats(ctx context.Context) (*pinecone.DescribeIndexStatsResponse, error)
	Close() error
}

// connectFunc opens a data plane connection to host for namespace.
type connectFunc func(host, namespace string) (dataPlane, error)

// Index talks to one Pinecone index.
type Index struct {
	control controlPlane
	connect connectFunc
	cfg     Config

	mu    sync.Mutex
	host  string
	conns map[string]dataPlane
}

// New creates a Pinecone index client. A missing API key is reported
// before any network activity.
func New(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: pinecone: PINECONE_API_KEY is required", domain.ErrConfiguration)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey:     cfg.APIKey,
		RestClient: &http.Client{Timeout: cfg.Timeout},
		SourceTag:  "lpdp_faq",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pinecone: create client: %w", domain.ErrConfiguration, err)
	}

	connect := func(host, namespace string) (dataPlane, error) {
		conn, err := client.Index(pinecone.NewIndexConnParams{Host: host, Namespace: namespace})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return newIndex(client, connect, cfg), nil
}

func newIndex(control controlPlane, connect connectFunc, cfg Config) *Index {
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = domain.DefaultDimension
	}
	if cfg.Metric == "" {
		cfg.Metric = DefaultMetric
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = driven.DefaultBatchSize
	}
	if cfg.ReadyPoll <= 0 {
		cfg.ReadyPoll = DefaultReadyPoll
	}

	return &Index{
		control: control,
		connect: connect,
		cfg:     cfg,
		host:    cfg.Host,
		conns:   make(map[string]dataPlane),
	}
}

// EnsureCollection creates the index if it is missing and waits until it
// is ready to accept writes.
func (idx *Index) EnsureCollection(ctx context.Context) error {
	existing, err := idx.control.DescribeIndex(ctx, idx.cfg.IndexName)
	switch {
	case err == nil:
		if existing.Dimension != nil && int(*existing.Dimension) != idx.cfg.Dimension {
			return fmt.Errorf("%w: pinecone index %s has dimension %d, want %d",
				domain.ErrConfiguration, existing.Name, *existing.Dimension, idx.cfg.Dimension)
		}
		logger.Debug("Pinecone index %s exists", existing.Name)
		return idx.waitReady(ctx, existing)

	case !isNotFound(err):
		return providerError("describe index "+idx.cfg.IndexName, err)
	}

	logger.Info("Creating Pinecone index %s (dimension %d, %s)", idx.cfg.IndexName, idx.cfg.Dimension, idx.cfg.Metric)
	dimension := int32(idx.cfg.Dimension)
	metric := pinecone.IndexMetric(idx.cfg.Metric)
	created, err := idx.control.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      idx.cfg.IndexName,
		Cloud:     pinecone.Cloud(idx.cfg.Cloud),
		Region:    idx.cfg.Region,
		Metric:    &metric,
		Dimension: &dimension,
	})
	if err != nil {
		return providerError("create index "+idx.cfg.IndexName, err)
	}
	return idx.waitReady(ctx, created)
}

func (idx *Index) waitReady(ctx context.Context, model *pinecone.Index) error {
	for model.Status == nil || !model.Status.Ready {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(idx.cfg.ReadyPoll):
		}
		var err error
		if model, err = idx.control.DescribeIndex(ctx, idx.cfg.IndexName); err != nil {
			return providerError("describe index "+idx.cfg.IndexName, err)
		}
	}
	idx.mu.Lock()
	idx.host = model.Host
	idx.mu.Unlock()
	return nil
}

// conn returns the connection for namespace, discovering the index host
// on first use.
func (idx *Index) conn(ctx context.Context, namespace string) (dataPlane, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if c, ok := idx.conns[namespace]; ok {
		return c, nil
	}
	if idx.host == "" {
		model, err := idx.control.DescribeIndex(ctx, idx.cfg.IndexName)
		if err != nil {
			return nil, providerError("describe index "+idx.cfg.IndexName, err)
		}
		idx.host = model.Host
	}

	c, err := idx.connect(idx.host, namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: pinecone: connect to %s: %w", domain.ErrProvider, idx.host, err)
	}
	idx.conns[namespace] = c
	return c, nil
}

// Upsert writes vectors in batches of the configured size.
func (idx *Index) Upsert(ctx context.Context, vectors []domain.IndexedVector, namespace string) (domain.UpsertResult, error) {
	if err := vector.CheckDimensions(vectors, idx.cfg.Dimension); err != nil {
		return domain.UpsertResult{}, err
	}
	c, err := idx.conn(ctx, namespace)
	if err != nil {
		return domain.UpsertResult{}, err
	}

	result, err := vector.UpsertBatches(vectors, idx.cfg.BatchSize, func(batch []domain.IndexedVector) error {
		records := make([]*pinecone.Vector, len(batch))
		for i, v := range batch {
			meta, err := structpb.NewStruct(v.Metadata.Map())
			if err != nil {
				return fmt.Errorf("%w: metadata of %s: %w", domain.ErrInvalidInput, v.ID, err)
			}
			values := v.Values
			records[i] = &pinecone.Vector{Id: v.ID, Values: &values, Metadata: meta}
		}
		if _, err := c.UpsertVectors(ctx, records); err != nil {
			return providerError("upsert", err)
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	logger.Debug("Upserted %d vectors in %d batches to namespace %q", result.TotalVectors, result.Batches, namespace)
	return result, nil
}

// Query returns the nearest vectors in the namespace.
func (idx *Index) Query(ctx context.Context, q domain.VectorQuery) ([]domain.RetrievedMatch, error) {
	if len(q.Vector) != idx.cfg.Dimension {
		return nil, fmt.Errorf("%w: %w: query has %d values, index has %d",
			domain.ErrInvalidInput, domain.ErrDimensionMismatch, len(q.Vector), idx.cfg.Dimension)
	}
	if err := q.Filter.Validate(); err != nil {
		return nil, err
	}

	req := &pinecone.QueryByVectorValuesRequest{
		Vector:          q.Vector,
		TopK:            uint32(max(q.TopK, 0)),
		IncludeMetadata: q.IncludeMetadata,
	}
	if expr := FilterExpression(q.Filter); expr != nil {
		filter, err := structpb.NewStruct(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: filter: %w", domain.ErrInvalidInput, err)
		}
		req.MetadataFilter = filter
	}

	c, err := idx.conn(ctx, q.Namespace)
	if err != nil {
		return nil, err
	}
	resp, err := c.QueryByVectorValues(ctx, req)
	if err != nil {
		return nil, providerError("query", err)
	}

	matches := make([]domain.RetrievedMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		var meta domain.VectorMetadata
		if m.Vector.Metadata != nil {
			meta = decodeMetadata(m.Vector.Metadata.AsMap())
		}
		matches = append(matches, domain.RetrievedMatch{
			ID:       m.Vector.Id,
			Score:    float64(m.Score),
			Content:  meta.Content,
			Metadata: meta,
		})
	}
	return matches, nil
}

// DeleteNamespace removes every vector in namespace.
func (idx *Index) DeleteNamespace(ctx context.Context, namespace string) error {
	c, err := idx.conn(ctx, namespace)
	if err != nil {
		return err
	}
	if err := c.DeleteAllVectorsInNamespace(ctx); err != nil {
		return providerError(fmt.Sprintf("delete namespace %q", namespace), err)
	}
	return nil
}

// Stats describes the index contents across all namespaces.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	c, err := idx.conn(ctx, "")
	if err != nil {
		return domain.IndexStats{}, err
	}
	resp, err := c.DescribeIndexStats(ctx)
	if err != nil {
		return domain.IndexStats{}, providerError("describe index stats", err)
	}

	stats := domain.IndexStats{
		TotalVectorCount: int(resp.TotalVectorCount),
		Namespaces:       make(map[string]int, len(resp.Namespaces)),
	}
	if resp.Dimension != nil {
		stats.Dimension = int(*resp.Dimension)
	}
	for name, ns := range resp.Namespaces {
		if ns != nil {
			stats.Namespaces[name] = int(ns.VectorCount)
		}
	}
	return stats, nil
}

// Close closes every open data plane connection.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var errs []error
	for ns, c := range idx.conns {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(idx.conns, ns)
	}
	return errors.Join(errs...)
}

func isNotFound(err error) bool {
	var pe *pinecone.PineconeError
	return errors.As(err, &pe) && pe.Code == http.StatusNotFound
}

// providerError maps SDK errors onto the domain sentinels.
func providerError(op string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: pinecone: %s: %w", domain.ErrNotFound, op, err)
	}
	return fmt.Errorf("%w: pinecone: %s: %w", domain.ErrProvider, op, err)
}

var operators = map[domain.FilterOp]string{
	domain.OpEq:  "$eq",
	domain.OpNe:  "$ne",
	domain.OpGt:  "$gt",
	domain.OpGte: "$gte",
	domain.OpLt:  "$lt",
	domain.OpLte: "$lte",
}

// FilterExpression converts a filter to Pinecone's metadata filter language.
// An empty filter returns nil.
func FilterExpression(f domain.Filter) map[string]any {
	if len(f) == 0 {
		return nil
	}
	clauses := make([]any, len(f))
	for i, c := range f {
		clauses[i] = map[string]any{c.Field: map[string]any{operators[c.Op]: c.Value}}
	}
	if len(clauses) == 1 {
		return clauses[0].(map[string]any)
	}
	return map[string]any{"$and": clauses}
}

func decodeMetadata(m map[string]any) domain.VectorMetadata {
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	num := func(key string) int {
		n, _ := m[key].(float64)
		return int(n)
	}
	return domain.VectorMetadata{
		Content:    str(domain.FieldContent),
		Source:     str(domain.FieldSource),
		PageNumber: num(domain.FieldPageNumber),
		Section:    str(domain.FieldSection),
		ChunkIndex: num(domain.FieldChunkIndex),
	}
}
