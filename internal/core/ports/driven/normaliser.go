package driven

import (
	"context"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// Normaliser extracts plain text from a document file.
// Each normaliser handles specific MIME types (e.g., Markdown, DOCX).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers return 50-89, fallbacks 1-9.
	Priority() int

	// Normalise extracts the title and text of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult is the text recovered from a file.
type NormaliseResult struct {
	// Title is taken from the document itself when it carries one,
	// otherwise from the file name.
	Title string

	// Content is the extracted plain text.
	Content string

	// Format names the normaliser that produced the result (e.g., "markdown").
	Format string
}
