package pinecone

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// --- Mock implementations ---

type mockControl struct {
	indexes   map[string]*pinecone.Index
	created   []*pinecone.CreateServerlessIndexRequest
	describes int
	// notReady is how many describes report the index as initialising.
	notReady int
}

func newMockControl() *mockControl {
	return &mockControl{indexes: map[string]*pinecone.Index{}}
}

func (m *mockControl) addIndex(name string, dim int32) {
	m.indexes[name] = &pinecone.Index{
		Name:      name,
		Host:      "lpdp-pencairan-abc.svc.pinecone.io",
		Dimension: &dim,
		Status:    &pinecone.IndexStatus{Ready: true, State: pinecone.Ready},
	}
}

func (m *mockControl) DescribeIndex(_ context.Context, name string) (*pinecone.Index, error) {
	m.describes++
	idx, ok := m.indexes[name]
	if !ok {
		return nil, &pinecone.PineconeError{Code: http.StatusNotFound, Msg: errors.New("index not found")}
	}
	model := *idx
	ready := m.notReady == 0
	if m.notReady > 0 {
		m.notReady--
	}
	model.Status = &pinecone.IndexStatus{Ready: ready}
	return &model, nil
}

func (m *mockControl) CreateServerlessIndex(_ context.Context, in *pinecone.CreateServerlessIndexRequest) (*pinecone.Index, error) {
	m.created = append(m.created, in)
	m.indexes[in.Name] = &pinecone.Index{Name: in.Name, Host: in.Name + "-abc.svc.pinecone.io", Dimension: in.Dimension}
	return &pinecone.Index{Name: in.Name, Dimension: in.Dimension, Status: &pinecone.IndexStatus{State: pinecone.Initializing}}, nil
}

type mockConn struct {
	namespace    string
	upserts      [][]*pinecone.Vector
	queries      []*pinecone.QueryByVectorValuesRequest
	matches      []*pinecone.ScoredVector
	stats        *pinecone.DescribeIndexStatsResponse
	deleted      int
	closed       bool
	failUpsertAt int
}

func (m *mockConn) UpsertVectors(_ context.Context, in []*pinecone.Vector) (uint32, error) {
	if m.failUpsertAt == len(m.upserts)+1 {
		return 0, &pinecone.PineconeError{Code: http.StatusServiceUnavailable, Msg: errors.New("unavailable")}
	}
	m.upserts = append(m.upserts, in)
	return uint32(len(in)), nil
}

func (m *mockConn) QueryByVectorValues(_ context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error) {
	m.queries = append(m.queries, in)
	return &pinecone.QueryVectorsResponse{Matches: m.matches, Namespace: m.namespace}, nil
}

func (m *mockConn) DeleteAllVectorsInNamespace(_ context.Context) error {
	m.deleted++
	return nil
}

func (m *mockConn) DescribeIndexStats(_ context.Context) (*pinecone.DescribeIndexStatsResponse, error) {
	return m.stats, nil
}

func (m *mockConn) Close() error {
	m.closed = true
	return nil
}

type testIndex struct {
	*Index
	control *mockControl
	conns   map[string]*mockConn
	hosts   []string
}

func newTestIndex(t *testing.T, cfg Config) *testIndex {
	t.Helper()
	ti := &testIndex{control: newMockControl(), conns: map[string]*mockConn{}}
	cfg.ReadyPoll = time.Millisecond
	connect := func(host, namespace string) (dataPlane, error) {
		ti.hosts = append(ti.hosts, host)
		c := ti.fake(namespace)
		return c, nil
	}
	ti.Index = newIndex(ti.control, connect, cfg)
	return ti
}

// fake returns the fake connection for namespace, creating it if needed.
func (ti *testIndex) fake(namespace string) *mockConn {
	c, ok := ti.conns[namespace]
	if !ok {
		c = &mockConn{namespace: namespace}
		ti.conns[namespace] = c
	}
	return c
}

func vectors(n, dim int) []domain.IndexedVector {
	out := make([]domain.IndexedVector, n)
	for i := range out {
		out[i] = domain.IndexedVector{
			ID:       fmt.Sprintf("guide.pdf_p%d_c0", i+1),
			Values:   make([]float32, dim),
			Metadata: domain.VectorMetadata{Content: "isi", Source: "guide.pdf", PageNumber: i + 1},
		}
	}
	return out
}

func scored(t *testing.T, id string, score float32, meta map[string]any) *pinecone.ScoredVector {
	t.Helper()
	s, err := structpb.NewStruct(meta)
	require.NoError(t, err)
	return &pinecone.ScoredVector{Vector: &pinecone.Vector{Id: id, Metadata: s}, Score: score}
}

// --- Tests ---

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNew_BuildsClient(t *testing.T) {
	idx, err := New(Config{APIKey: "pc-test"})
	require.NoError(t, err)

	assert.Equal(t, DefaultIndexName, idx.cfg.IndexName)
	assert.Equal(t, domain.DefaultDimension, idx.cfg.Dimension)
	assert.NoError(t, idx.Close())
}

func TestEnsureCollection_CreatesOnce(t *testing.T) {
	idx := newTestIndex(t, Config{})
	idx.control.notReady = 1
	ctx := context.Background()

	require.NoError(t, idx.EnsureCollection(ctx))
	require.NoError(t, idx.EnsureCollection(ctx))

	require.Len(t, idx.control.created, 1)
	created := idx.control.created[0]
	assert.Equal(t, "lpdp-pencairan", created.Name)
	assert.Equal(t, int32(768), *created.Dimension)
	assert.Equal(t, pinecone.Cosine, *created.Metric)
	assert.Equal(t, pinecone.Aws, created.Cloud)
	assert.Equal(t, "us-east-1", created.Region)
	assert.GreaterOrEqual(t, idx.control.describes, 3, "waits for readiness")
	assert.Equal(t, "lpdp-pencairan-abc.svc.pinecone.io", idx.host)
}

func TestEnsureCollection_DimensionMismatch(t *testing.T) {
	idx := newTestIndex(t, Config{})
	idx.control.addIndex("lpdp-pencairan", 1536)

	err := idx.EnsureCollection(context.Background())

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, idx.control.created)
}

func TestEnsureCollection_Cancelled(t *testing.T) {
	idx := newTestIndex(t, Config{})
	idx.control.notReady = 1000
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := idx.EnsureCollection(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpsert_Batches(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4})
	idx.control.addIndex("lpdp-pencairan", 4)
	require.NoError(t, idx.EnsureCollection(context.Background()))

	result, err := idx.Upsert(context.Background(), vectors(250, 4), "lpdp")

	require.NoError(t, err)
	assert.Equal(t, domain.UpsertResult{Batches: 3, TotalVectors: 250}, result)
	conn := idx.conns["lpdp"]
	require.Len(t, conn.upserts, 3)
	assert.Len(t, conn.upserts[0], 100)
	assert.Len(t, conn.upserts[2], 50)
	first := conn.upserts[0][0]
	assert.Equal(t, "guide.pdf_p1_c0", first.Id)
	assert.Len(t, *first.Values, 4)
	meta := first.Metadata.AsMap()
	assert.Equal(t, "isi", meta["content"])
	assert.Equal(t, float64(1), meta["page_number"])
	assert.Equal(t, []string{"lpdp-pencairan-abc.svc.pinecone.io"}, idx.hosts)
}

func TestUpsert_PartialFailure(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4})
	idx.control.addIndex("lpdp-pencairan", 4)
	idx.fake("").failUpsertAt = 2

	result, err := idx.Upsert(context.Background(), vectors(250, 4), "")

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Equal(t, domain.UpsertResult{Batches: 1, TotalVectors: 100}, result)
	assert.Len(t, idx.conns[""].upserts, 1)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4})

	_, err := idx.Upsert(context.Background(), vectors(1, 3), "")

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Empty(t, idx.conns)
}

func TestQuery(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4})
	idx.control.addIndex("lpdp-pencairan", 4)
	idx.fake("lpdp").matches = []*pinecone.ScoredVector{
		scored(t, "guide.pdf_p54_c0", 0.95, map[string]any{
			"content": "Tokyo: JPY 195,000", "source": "guide.pdf", "page_number": 54,
			"section": "Dana Hidup Bulanan", "chunk_index": 0,
		}),
		scored(t, "guide.pdf_p12_c1", 0.41, map[string]any{
			"content": "SPP", "source": "guide.pdf", "page_number": 12, "section": "", "chunk_index": 1,
		}),
		{Score: 0.1},
	}

	matches, err := idx.Query(context.Background(), domain.VectorQuery{
		Vector:          []float32{1, 0, 0, 0},
		TopK:            5,
		Namespace:       "lpdp",
		Filter:          domain.Filter{domain.Eq(domain.FieldSection, "Dana Hidup Bulanan")},
		IncludeMetadata: true,
	})

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "guide.pdf_p54_c0", matches[0].ID)
	assert.InDelta(t, 0.95, matches[0].Score, 1e-6)
	assert.Equal(t, "Tokyo: JPY 195,000", matches[0].Content)
	assert.Equal(t, 54, matches[0].Metadata.PageNumber)
	assert.Equal(t, "Dana Hidup Bulanan", matches[0].Metadata.Section)
	assert.Equal(t, 1, matches[1].Metadata.ChunkIndex)

	queries := idx.conns["lpdp"].queries
	require.Len(t, queries, 1)
	q := queries[0]
	assert.Equal(t, uint32(5), q.TopK)
	assert.True(t, q.IncludeMetadata)
	assert.False(t, q.IncludeValues)
	assert.Equal(t, map[string]any{"section": map[string]any{"$eq": "Dana Hidup Bulanan"}}, q.MetadataFilter.AsMap())
	assert.Equal(t, 1, idx.control.describes, "host discovered through describe")
}

func TestQuery_NoFilter(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4, Host: "preset.svc.pinecone.io"})

	_, err := idx.Query(context.Background(), domain.VectorQuery{Vector: make([]float32, 4), TopK: 3})

	require.NoError(t, err)
	assert.Nil(t, idx.conns[""].queries[0].MetadataFilter)
	assert.Zero(t, idx.control.describes)
	assert.Equal(t, []string{"preset.svc.pinecone.io"}, idx.hosts)
}

func TestQuery_UnknownIndex(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4})

	_, err := idx.Query(context.Background(), domain.VectorQuery{Vector: make([]float32, 4), TopK: 1})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_DimensionMismatch(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4})

	_, err := idx.Query(context.Background(), domain.VectorQuery{Vector: make([]float32, 3), TopK: 1})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestDeleteNamespace(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4})
	idx.control.addIndex("lpdp-pencairan", 4)

	require.NoError(t, idx.DeleteNamespace(context.Background(), "uji"))

	assert.Equal(t, 1, idx.conns["uji"].deleted)
	assert.Equal(t, 0, idx.fake("").deleted)
}

func TestStats(t *testing.T) {
	idx := newTestIndex(t, Config{Host: "preset.svc.pinecone.io"})
	dim := uint32(768)
	idx.fake("").stats = &pinecone.DescribeIndexStatsResponse{
		Dimension:        &dim,
		TotalVectorCount: 312,
		Namespaces: map[string]*pinecone.NamespaceSummary{
			"":    {VectorCount: 300},
			"uji": {VectorCount: 12},
		},
	}

	stats, err := idx.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 768, stats.Dimension)
	assert.Equal(t, 312, stats.TotalVectorCount)
	assert.Equal(t, map[string]int{"": 300, "uji": 12}, stats.Namespaces)
	assert.Zero(t, idx.control.describes)
}

func TestClose_ClosesConnections(t *testing.T) {
	idx := newTestIndex(t, Config{Dimension: 4, Host: "preset.svc.pinecone.io"})
	require.NoError(t, idx.DeleteNamespace(context.Background(), "a"))
	require.NoError(t, idx.DeleteNamespace(context.Background(), "b"))

	require.NoError(t, idx.Close())

	assert.True(t, idx.conns["a"].closed)
	assert.True(t, idx.conns["b"].closed)
}

func TestFilterExpression(t *testing.T) {
	assert.Nil(t, FilterExpression(nil))

	got := FilterExpression(domain.Filter{
		domain.Gte(domain.FieldPageNumber, 50),
		domain.Lt(domain.FieldPageNumber, 60),
	})
	assert.Equal(t, map[string]any{"$and": []any{
		map[string]any{"page_number": map[string]any{"$gte": 50.0}},
		map[string]any{"page_number": map[string]any{"$lt": 60.0}},
	}}, got)

	_, err := structpb.NewStruct(got)
	assert.NoError(t, err)
}

func TestProviderError(t *testing.T) {
	notFound := providerError("describe", &pinecone.PineconeError{Code: http.StatusNotFound, Msg: errors.New("missing")})
	assert.ErrorIs(t, notFound, domain.ErrNotFound)

	other := providerError("upsert", errors.New("boom"))
	assert.ErrorIs(t, other, domain.ErrProvider)
	assert.NotErrorIs(t, other, domain.ErrNotFound)
}
