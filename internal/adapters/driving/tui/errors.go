package tui

import "errors"

// ErrMissingRetrievalPipeline is returned when the retrieval pipeline is not provided.
var ErrMissingRetrievalPipeline = errors.New("tui: retrieval pipeline is required")

// ErrMissingDocumentCatalog is returned when the document catalog is not provided.
var ErrMissingDocumentCatalog = errors.New("tui: document catalog is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
