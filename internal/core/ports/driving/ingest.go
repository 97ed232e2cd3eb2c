package driving

import (
	"context"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// IngestFileRequest carries a document file to extract and store.
type IngestFileRequest struct {
	// Name is the file name; it selects the format when MIMEType is empty.
	Name string

	// MIMEType overrides detection from the name.
	MIMEType string

	// Content is the file's bytes.
	Content []byte

	// Title overrides the title found in the file.
	Title string

	// Kind classifies the stored document.
	Kind domain.Kind
}

// IngestResult describes a stored file. A long file is stored as several
// sections, one document each, in file order.
type IngestResult struct {
	IDs    []string
	Title  string
	Format string
}

// DocumentIngestor turns document files into stored documents.
type DocumentIngestor interface {
	// Ingest extracts the file's text and creates documents from it.
	Ingest(ctx context.Context, req IngestFileRequest) (*IngestResult, error)

	// SupportedMIMETypes lists the formats that can be ingested.
	SupportedMIMETypes() []string
}
