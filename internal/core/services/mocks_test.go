package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockEmbedder struct {
	mu        sync.Mutex
	queries   []string
	manyCalls int
	failAt    int // EmbedMany call number that fails, 0 for never
	short     bool
}

func (m *mockEmbedder) EmbedDocument(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, text)
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manyCalls++
	if m.failAt > 0 && m.manyCalls == m.failAt {
		return nil, errors.New("quota exceeded")
	}
	n := len(texts)
	if m.short {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(i), 1, 0}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return 3 }
func (m *mockEmbedder) ModelName() string { return "mock-embedding" }
func (m *mockEmbedder) Close() error      { return nil }

type mockIndex struct {
	mu         sync.Mutex
	matches    []domain.RetrievedMatch
	queryErr   error
	queries    []domain.VectorQuery
	upserts    [][]domain.IndexedVector
	namespaces []string
	deleted    []string
	ensured    int
	failUpsert int // upsert call number that fails, 0 for never
	stats      domain.IndexStats
}

func (m *mockIndex) EnsureCollection(_ context.Context) error {
	m.ensured++
	return nil
}

func (m *mockIndex) Upsert(_ context.Context, vectors []domain.IndexedVector, namespace string) (domain.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert > 0 && len(m.upserts)+1 == m.failUpsert {
		m.failUpsert = 0
		return domain.UpsertResult{}, domain.ErrProvider
	}
	m.upserts = append(m.upserts, vectors)
	m.namespaces = append(m.namespaces, namespace)
	return domain.UpsertResult{Batches: 1, TotalVectors: len(vectors)}, nil
}

func (m *mockIndex) Query(_ context.Context, q domain.VectorQuery) ([]domain.RetrievedMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.matches, nil
}

func (m *mockIndex) DeleteNamespace(_ context.Context, namespace string) error {
	m.deleted = append(m.deleted, namespace)
	return nil
}

func (m *mockIndex) Stats(_ context.Context) (domain.IndexStats, error) {
	return m.stats, nil
}

func (m *mockIndex) Close() error { return nil }

func (m *mockIndex) upsertedVectors() int {
	total := 0
	for _, batch := range m.upserts {
		total += len(batch)
	}
	return total
}

type mockGenerator struct {
	calls       int
	question    string
	contextText string
	answer      string
	err         error

	summarised []string
	maxLength  int
	summary    string
}

func (m *mockGenerator) Generate(_ context.Context, question, contextText string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.question = question
	m.contextText = contextText
	return m.answer, m.err
}

func (m *mockGenerator) Summarise(_ context.Context, chunks []string, maxLength int) (string, error) {
	m.calls++
	m.summarised = chunks
	m.maxLength = maxLength
	return m.summary, m.err
}

func (m *mockGenerator) ModelName() string { return "mock-generator" }
func (m *mockGenerator) Close() error      { return nil }

type mockRetriever struct {
	question string
	opts     driving.RetrieveOptions
	result   domain.QueryResult
	err      error
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, _ driving.RetrieveOptions) ([]domain.RetrievedMatch, error) {
	return nil, nil
}

func (m *mockRetriever) Context(_ context.Context, _ string, _ driving.RetrieveOptions) (string, error) {
	return "", nil
}

func (m *mockRetriever) Query(_ context.Context, question string, opts driving.RetrieveOptions) (domain.QueryResult, error) {
	m.question = question
	m.opts = opts
	return m.result, m.err
}

func (m *mockRetriever) SearchByTopic(_ context.Context, _ string, _ int) ([]domain.RetrievedMatch, error) {
	return nil, nil
}

func (m *mockRetriever) Summarise(_ context.Context, _ string, _ int, _ driving.RetrieveOptions) (domain.QueryResult, error) {
	return domain.QueryResult{}, nil
}

type mockLoader struct {
	pages       []domain.PageDocument
	fingerprint string
	loadErr     error
	loads       int
}

func (m *mockLoader) Load(_ context.Context, _ string) ([]domain.PageDocument, error) {
	m.loads++
	return m.pages, m.loadErr
}

func (m *mockLoader) Fingerprint(_ string) (string, error) {
	if m.fingerprint == "" {
		return "", domain.ErrNotFound
	}
	return m.fingerprint, nil
}

// mockChunker emits perPage chunks for every page.
type mockChunker struct {
	perPage int
}

func (m *mockChunker) ChunkDocuments(pages []domain.PageDocument) []domain.Chunk {
	var chunks []domain.Chunk
	for _, p := range pages {
		for i := 0; i < m.perPage; i++ {
			chunks = append(chunks, domain.Chunk{
				ID:      domain.ChunkID(p.Metadata.Source, p.Metadata.PageNumber, i),
				Content: p.Content,
				Metadata: domain.ChunkMetadata{
					PageMetadata: p.Metadata,
					ChunkIndex:   i,
					TotalChunks:  m.perPage,
				},
			})
		}
	}
	return chunks
}

type mockCheckpoints struct {
	saved     map[string]domain.IndexCheckpoint
	saves     int
	deleteErr error
}

func newMockCheckpoints() *mockCheckpoints {
	return &mockCheckpoints{saved: make(map[string]domain.IndexCheckpoint)}
}

func (m *mockCheckpoints) Get(_ context.Context, key string) (*domain.IndexCheckpoint, error) {
	cp, ok := m.saved[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cp, nil
}

func (m *mockCheckpoints) Save(_ context.Context, cp domain.IndexCheckpoint) error {
	m.saves++
	m.saved[cp.Key] = cp
	return nil
}

func (m *mockCheckpoints) Delete(_ context.Context, key string) error {
	if _, ok := m.saved[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.saved, key)
	return nil
}

func (m *mockCheckpoints) DeleteNamespace(_ context.Context, namespace string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for key, cp := range m.saved {
		if cp.Namespace == namespace {
			delete(m.saved, key)
		}
	}
	return nil
}

func (m *mockCheckpoints) Close() error { return nil }
