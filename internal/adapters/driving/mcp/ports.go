package mcp

import (
	"github.com/custodia-labs/retriva/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Ingest runs background document ingestion.
	Ingest driving.IngestService

	// Document manages ingested documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Ingest and Document are optional; their tools report an error
	// when invoked without them.
	return nil
}
