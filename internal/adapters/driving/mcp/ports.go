package mcp

import (
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Tools answers the five guide tools.
	Tools driving.ToolService

	// Index reports index statistics. Optional; without it the stats
	// resource is not registered.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Tools == nil {
		return ErrMissingToolService
	}
	return nil
}
