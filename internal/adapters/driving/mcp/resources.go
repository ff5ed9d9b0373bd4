package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "lpdp://"

	// InfoURI describes the server and its tools.
	InfoURI = uriScheme + "info"

	// StatsURI reports vector index totals.
	StatsURI = uriScheme + "stats"
)

// InfoText is the body of the info resource.
const InfoText = `# LPDP Pencairan FAQ Server

Server MCP ini menyediakan informasi tentang pencairan beasiswa LPDP berdasarkan
dokumen "Panduan Pencairan Awardee" yang berlaku sejak 29 Oktober 2025.

## Tools yang tersedia:

1. **tanya_pencairan_lpdp** - Pertanyaan umum tentang pencairan
2. **cari_komponen_dana** - Informasi komponen dana spesifik
3. **cek_batas_waktu** - Deadline pengajuan dana
4. **info_dana_bulanan** - Living allowance per lokasi
5. **cari_dokumen_persyaratan** - Dokumen yang dibutuhkan

## Contoh pertanyaan:
- "Bagaimana cara mengajukan dana penelitian tesis?"
- "Berapa living allowance di Jepang?"
- "Kapan batas waktu pengajuan dana transportasi?"
`

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         InfoURI,
		Name:        "Server Info",
		Description: "Informasi tentang LPDP MCP Server",
		MIMEType:    "text/plain",
	}, s.handleInfoResource)

	if s.ports.Index == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         StatsURI,
		Name:        "Index Stats",
		Description: "Jumlah vektor per namespace dalam indeks",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

func (s *Server) handleInfoResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     InfoText,
		}},
	}, nil
}

func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index stats: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
