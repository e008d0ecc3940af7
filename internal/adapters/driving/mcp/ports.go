package mcp

import (
	"github.com/custodia-labs/lexroster/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides filter and text search over documents.
	Search driving.SearchService

	// Judges merges judge records from documents and the roster.
	Judges driving.JudgeService

	// Document exposes stored documents and the group summary.
	Document driving.DocumentService

	// Roster exposes structured roster records.
	Roster driving.RosterService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Judges, Document and Roster are optional; their tools and resources
	// are registered only when present.
	return nil
}
