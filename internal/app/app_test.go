package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

func useMemoryIndex(s *domain.Settings) {
	s.VectorIndex.Provider = domain.VectorProviderMemory
}

func TestBuild_MissingCredentials(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "")
	t.Setenv(domain.EnvPineconeAPIKey, "")

	_, err := Build(context.Background(), Options{ConfigDir: t.TempDir()})

	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), domain.EnvGoogleAPIKey)
	assert.Contains(t, err.Error(), domain.EnvPineconeAPIKey)
}

func TestBuild_InvalidSettings(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "test-key")

	_, err := Build(context.Background(), Options{
		ConfigDir: t.TempDir(),
		Override: func(s *domain.Settings) {
			useMemoryIndex(s)
			s.Chunking.Overlap = s.Chunking.Size
		},
	})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestBuild_MemoryIndex(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "test-key")
	dir := t.TempDir()

	c, err := Build(context.Background(), Options{ConfigDir: dir, Override: useMemoryIndex})
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close()) }()

	assert.NotNil(t, c.Retriever)
	assert.NotNil(t, c.Tools)
	assert.NotNil(t, c.Indexer)
	assert.Equal(t, domain.VectorProviderMemory, c.Resolved.VectorIndex.Provider)
	assert.Equal(t, "test-key", c.Resolved.Gemini.APIKey)
	assert.NotNil(t, c.checkpoints)
	assert.DirExists(t, filepath.Join(dir, "data"))

	stats, err := c.Indexer.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDimension, stats.Dimension)
	assert.Zero(t, stats.TotalVectorCount)
}

func TestBuild_NoCheckpoints(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "test-key")
	dir := t.TempDir()

	c, err := Build(context.Background(), Options{ConfigDir: dir, Override: useMemoryIndex, NoCheckpoints: true})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Nil(t, c.checkpoints)
	assert.NoDirExists(t, filepath.Join(dir, "data"))
}

func TestBuild_ReadsConfigFile(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "test-key")
	dir := t.TempDir()
	config := "[vector_index]\nprovider = \"memory\"\nnamespace = \"v2\"\n\n[retrieval]\ntop_k = 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0o600))

	c, err := Build(context.Background(), Options{ConfigDir: dir})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "v2", c.Resolved.VectorIndex.Namespace)
	assert.Equal(t, 8, c.Resolved.Retrieval.TopK)
}

func TestNewSettings(t *testing.T) {
	dir := t.TempDir()

	s, err := NewSettings(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("retrieval.top_k", "7"))

	again, err := NewSettings(dir)
	require.NoError(t, err)
	got, err := again.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, got.Retrieval.TopK)
	assert.FileExists(t, filepath.Join(dir, "config.toml"))
}

func TestContainer_CloseEmpty(t *testing.T) {
	assert.NoError(t, (&Container{}).Close())
}

func TestBuild_CheckpointFallback(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "test-key")
	dir := t.TempDir()
	// A file where the data directory should be makes the database unusable.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), nil, 0o600))

	c, err := Build(context.Background(), Options{ConfigDir: dir, Override: useMemoryIndex})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, inMemory := c.checkpoints.(*memory.CheckpointStore)
	assert.True(t, inMemory)
}

func TestBuild_ConfigDirUnavailable(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "test-key")
	blocked := filepath.Join(t.TempDir(), "home")
	// A file where the config directory should be cannot be created.
	require.NoError(t, os.WriteFile(blocked, nil, 0o600))

	c, err := Build(context.Background(), Options{ConfigDir: blocked, Override: useMemoryIndex})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "test-key", c.Resolved.Gemini.APIKey)
	assert.Equal(t, domain.DefaultSettings().Retrieval.TopK, c.Resolved.Retrieval.TopK)
	_, inMemory := c.checkpoints.(*memory.CheckpointStore)
	assert.True(t, inMemory)
}

func TestBuild_BrokenConfigFileIsAnError(t *testing.T) {
	t.Setenv(domain.EnvGoogleAPIKey, "test-key")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[retrieval\ntop_k ="), 0o600))

	_, err := Build(context.Background(), Options{ConfigDir: dir, Override: useMemoryIndex})

	assert.Error(t, err)
}
