package driven

import "github.com/custodia-labs/normaq/internal/core/domain"

// AIConfigValidator checks provider settings by connecting to the provider.
type AIConfigValidator interface {
	// ValidateEmbedding pings the configured embedding provider.
	// Returns nil if the settings are not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateGeneration pings the configured generation provider.
	// Returns nil if the settings are not configured.
	ValidateGeneration(config *domain.GenerationSettings) error
}
