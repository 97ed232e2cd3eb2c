package driven

import (
	"context"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a file.
type NormaliserRegistry interface {
	// Normalise extracts text using the highest-priority normaliser for the
	// file's MIME type, detecting the type from the name when unset.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
