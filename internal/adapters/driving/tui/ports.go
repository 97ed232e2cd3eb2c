// Package tui provides an interactive terminal user interface for normaq.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls.
type Ports struct {
	// Pipeline answers questions.
	Pipeline driving.RetrievalPipeline

	// Catalog lists, shows and deletes documents.
	Catalog driving.DocumentCatalog

	// Status reports the configured providers and store. Optional.
	Status driving.StatusService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(pipeline driving.RetrievalPipeline, catalog driving.DocumentCatalog) *Ports {
	return &Ports{
		Pipeline: pipeline,
		Catalog:  catalog,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Pipeline == nil {
		return ErrMissingRetrievalPipeline
	}
	if p.Catalog == nil {
		return ErrMissingDocumentCatalog
	}
	return nil
}
