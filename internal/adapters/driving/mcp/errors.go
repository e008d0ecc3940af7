// Package mcp provides an MCP (Model Context Protocol) server adapter for lexroster.
// It lets AI assistants search court roster documents and judges.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
