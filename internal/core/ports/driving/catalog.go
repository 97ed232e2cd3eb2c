package driving

import (
	"context"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// CreateDocumentRequest holds the fields of a new document.
// An empty Kind means domain.DefaultKind.
type CreateDocumentRequest struct {
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Kind    domain.Kind `json:"kind,omitempty"`
}

// UpdateDocumentRequest holds the fields to change; nil fields are kept.
type UpdateDocumentRequest struct {
	Title   *string      `json:"title,omitempty"`
	Content *string      `json:"content,omitempty"`
	Kind    *domain.Kind `json:"kind,omitempty"`
}

// DocumentCatalog manages stored documents independently of similarity search.
type DocumentCatalog interface {
	// List returns document previews. When page or size is nil the whole
	// catalog is returned; otherwise both are clamped to at least 1 and the
	// matching slice is returned (empty past the end).
	List(ctx context.Context, page, size *int) (*domain.Page, error)

	// Get returns the full document.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetPreview returns the listing form of a document.
	GetPreview(ctx context.Context, id string) (*domain.DocumentPreview, error)

	// Create validates, embeds and stores a new document and returns its id.
	Create(ctx context.Context, req CreateDocumentRequest) (string, error)

	// Import creates many documents, embedding them in one batch.
	// Every request is validated before any is embedded.
	Import(ctx context.Context, reqs []CreateDocumentRequest) ([]string, error)

	// Update changes the supplied fields of an existing document.
	Update(ctx context.Context, id string, req UpdateDocumentRequest) (*domain.Document, error)

	// Delete removes a document; domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}
