// Package tui provides the interactive chat interface over the disbursement
// guide. It is a driving adapter like the CLI and MCP server.
package tui

import (
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Retriever answers questions.
	Retriever driving.RetrieverService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
