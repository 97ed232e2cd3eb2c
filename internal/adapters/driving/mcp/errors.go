// Package mcp provides an MCP (Model Context Protocol) server adapter for normaq.
// It lets AI assistants query the document collection and manage its documents.
package mcp

import "errors"

var (
	// ErrMissingRetrievalPipeline is returned when the retrieval pipeline is not provided.
	ErrMissingRetrievalPipeline = errors.New("mcp: retrieval pipeline is required")

	// ErrMissingDocumentCatalog is returned when the document catalog is not provided.
	ErrMissingDocumentCatalog = errors.New("mcp: document catalog is required")
)
