package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

func TestStatsCmd_PrintsTotals(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "lpdp-pencairan (pinecone)")
	assert.Contains(t, out, "Dimension:      768")
	assert.Contains(t, out, "Total vectors:  250")
	assert.Contains(t, out, "(default)")
	assert.Contains(t, out, "v2")
	assert.Less(t, strings.Index(out, "(default)"), strings.Index(out, "v2"))
}

func TestStatsCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "stats", "--json")

	require.NoError(t, err)
	var got domain.IndexStats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, ts.indexer.stats, got)
}

func TestStatsCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.indexer.err = domain.ErrProvider

	_, err := execute(t, "stats")

	assert.ErrorIs(t, err, domain.ErrProvider)
}
