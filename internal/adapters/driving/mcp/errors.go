// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// LPDP disbursement guide. It exposes the question-answering tools to AI
// assistants over stdio or streamable HTTP.
package mcp

import "errors"

// ErrMissingToolService is returned when the tool service is not provided.
var ErrMissingToolService = errors.New("mcp: tool service is required")
