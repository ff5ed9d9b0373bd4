package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

func TestConfigShow_MasksSecrets(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Gemini.APIKey = "AIzaSyABCDEFGHIJKL"
	ts.settings.settings.VectorIndex.APIKey = "pc-123"

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "AIza...IJKL")
	assert.NotContains(t, out, "AIzaSyABCDEFGHIJKL")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, "lpdp-pencairan")
	assert.Contains(t, out, "Chunk size:          1000")
	require.Len(t, ts.builds, 1)
	assert.True(t, ts.builds[0].SettingsOnly)
}

func TestConfigShow_Qdrant(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.VectorIndex.Provider = domain.VectorProviderQdrant
	ts.settings.settings.VectorIndex.Host = "localhost"

	out, err := execute(t, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "localhost:6334")
	assert.NotContains(t, out, "Cloud/region")
}

func TestConfigSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "config", "set", "retrieval.top_k", "8")

	require.NoError(t, err)
	assert.Equal(t, "8", ts.settings.stored["retrieval.top_k"])
	assert.Contains(t, out, "Set retrieval.top_k")
}

func TestConfigSet_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.err = domain.ErrInvalidInput

	_, err := execute(t, "config", "set", "nope", "1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "(not set)", mask(""))
	assert.Equal(t, "********", mask("short"))
	assert.Equal(t, "abcd...mnop", mask("abcdefghijklmnop"))
}
