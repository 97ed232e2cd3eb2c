package mcp

import (
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline answers questions over the stored documents.
	Pipeline driving.RetrievalPipeline

	// Catalog manages the stored documents.
	Catalog driving.DocumentCatalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingRetrievalPipeline
	}
	if p.Catalog == nil {
		return ErrMissingDocumentCatalog
	}
	return nil
}
