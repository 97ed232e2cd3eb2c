package driven

import (
	"context"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// VectorStore persists (document, vector) pairs and ranks them by similarity.
// It is the only shared mutable resource of the service.
//
// Writes are atomic per id: a concurrent Search never observes a document
// without its vector or the reverse. Any underlying I/O failure surfaces as
// domain.ErrStoreUnavailable; stores never retry internally.
type VectorStore interface {
	// Get returns the document with the given id, or domain.ErrNotFound.
	// Similarity is never set on the returned document.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns every document in insertion order.
	List(ctx context.Context) ([]domain.Document, error)

	// Put inserts the document or overwrites the one with the same id (upsert).
	// An overwrite keeps the original insertion position.
	Put(ctx context.Context, doc domain.Document, vector []float32) (string, error)

	// Delete removes the document and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Search returns at most k documents ordered by descending similarity,
	// where similarity = 1 - distance under the store's metric. Equal
	// similarities keep insertion order. Returns domain.ErrInvalidLimit if k <= 0
	// and an empty slice for an empty store.
	Search(ctx context.Context, vector []float32, k int) ([]domain.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Metric returns the distance metric fixed at construction.
	Metric() domain.DistanceMetric

	// Close releases resources.
	Close() error
}
