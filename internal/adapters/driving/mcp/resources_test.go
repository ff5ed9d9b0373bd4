package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

func TestServer_InfoResource(t *testing.T) {
	session := connect(t, &Ports{Tools: &mockToolService{}})

	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: InfoURI})

	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "text/plain", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "Panduan Pencairan Awardee")
	assert.Contains(t, res.Contents[0].Text, "29 Oktober 2025")
	for name := range toolNames {
		assert.Contains(t, res.Contents[0].Text, name)
	}
}

func TestServer_StatsResource(t *testing.T) {
	t.Run("reports index stats", func(t *testing.T) {
		index := &mockIndexService{stats: domain.IndexStats{
			Dimension:        768,
			TotalVectorCount: 312,
			Namespaces:       map[string]int{"": 300, "uji": 12},
		}}
		session := connect(t, &Ports{Tools: &mockToolService{}, Index: index})

		res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: StatsURI})

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var stats domain.IndexStats
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &stats))
		assert.Equal(t, 312, stats.TotalVectorCount)
		assert.Equal(t, 12, stats.Namespaces["uji"])
	})

	t.Run("stats error", func(t *testing.T) {
		index := &mockIndexService{err: errors.New("index unreachable")}
		session := connect(t, &Ports{Tools: &mockToolService{}, Index: index})

		_, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: StatsURI})

		assert.Error(t, err)
	})

	t.Run("not registered without index service", func(t *testing.T) {
		session := connect(t, &Ports{Tools: &mockToolService{}})

		res, err := session.ListResources(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, res.Resources, 1)
		assert.Equal(t, InfoURI, res.Resources[0].URI)
	})
}
