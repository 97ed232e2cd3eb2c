package driving

import (
	"context"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// RetrievalPipeline answers questions from the stored documents.
type RetrievalPipeline interface {
	// Query validates the query, retrieves the most similar documents and
	// generates an answer grounded in them. A generation failure does not fail
	// the call: the result carries the documents and an explanatory answer.
	Query(ctx context.Context, query domain.Query) (*domain.RetrievalResult, error)
}
