package ai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/section"
	memoryindex "github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// --- Mock implementations ---

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

type mockIndex struct {
	*memoryindex.Index
	closer
}

func (m *mockIndex) Close() error { return m.closer.Close() }

// --- Tests ---

func TestCreateVectorIndex(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.VectorIndexSettings
		want     any
		wantErr  error
	}{
		{
			name:     "memory",
			settings: domain.VectorIndexSettings{Provider: domain.VectorProviderMemory, Dimension: 4},
			want:     &memoryindex.Index{},
		},
		{
			name:     "pinecone",
			settings: domain.VectorIndexSettings{Provider: domain.VectorProviderPinecone, APIKey: "pc", Dimension: 4},
			want:     &pinecone.Index{},
		},
		{
			name:     "pinecone without key",
			settings: domain.VectorIndexSettings{Provider: domain.VectorProviderPinecone, Dimension: 4},
			wantErr:  domain.ErrConfiguration,
		},
		{
			name:     "qdrant",
			settings: domain.VectorIndexSettings{Provider: domain.VectorProviderQdrant, Host: "localhost", Port: 6334, Dimension: 4},
			want:     &qdrant.Index{},
		},
		{
			name:     "unknown",
			settings: domain.VectorIndexSettings{Provider: "faiss"},
			wantErr:  domain.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := CreateVectorIndex(tt.settings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, idx)
			assert.NoError(t, idx.Close())
		})
	}
}

func TestCreateEmbeddingService_MissingKey(t *testing.T) {
	_, err := CreateEmbeddingService(context.Background(), domain.GeminiSettings{}, 768)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCreateAnswerGenerator_MissingKey(t *testing.T) {
	_, err := CreateAnswerGenerator(context.Background(), domain.GeminiSettings{}, nil)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCreateClassifier(t *testing.T) {
	c, err := CreateClassifier(domain.DocumentSettings{})
	require.NoError(t, err)
	assert.IsType(t, &section.KeywordClassifier{}, c)

	path := filepath.Join(t.TempDir(), "sections.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections:\n  - label: Dana Riset\n    keywords: [riset]\n"), 0600))
	c, err = CreateClassifier(domain.DocumentSettings{SectionRules: path})
	require.NoError(t, err)
	assert.Equal(t, "Dana Riset", c.Classify("Pengajuan dana riset"))

	_, err = CreateClassifier(domain.DocumentSettings{SectionRules: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInit_InvalidSettings(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Chunking.Overlap = settings.Chunking.Size

	_, err := Init(context.Background(), settings, nil)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestInit_MissingGoogleKey(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.VectorIndex.Provider = domain.VectorProviderMemory

	_, err := Init(context.Background(), settings, nil)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestInitResult_Close(t *testing.T) {
	idx := &mockIndex{Index: memoryindex.New(4), closer: closer{err: errors.New("boom")}}
	result := &InitResult{VectorIndex: idx}

	err := result.Close()

	assert.EqualError(t, err, "boom")
	assert.True(t, idx.closed)
	assert.NoError(t, (&InitResult{}).Close())
}

func TestMissingCredentials(t *testing.T) {
	settings := domain.DefaultSettings()
	assert.Equal(t, []string{domain.EnvGoogleAPIKey, domain.EnvPineconeAPIKey}, MissingCredentials(settings))

	settings.Gemini.APIKey = "g"
	settings.VectorIndex.Provider = domain.VectorProviderQdrant
	assert.Empty(t, MissingCredentials(settings))
}
