package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/normaq/internal/core/ports/driven"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
	"github.com/custodia-labs/normaq/internal/logger"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService reports on the store and the configured providers.
type StatusService struct {
	store     driven.VectorStore
	backend   string
	embedder  driven.EmbeddingProvider
	generator driven.GenerationProvider
}

// NewStatusService creates a new status service.
// The generator parameter is optional (can be nil).
func NewStatusService(
	store driven.VectorStore,
	backend string,
	embedder driven.EmbeddingProvider,
	generator driven.GenerationProvider,
) *StatusService {
	return &StatusService{
		store:     store,
		backend:   backend,
		embedder:  embedder,
		generator: generator,
	}
}

// Status gathers the current status.
// Only a store failure fails the call; provider probes are best effort.
func (s *StatusService) Status(ctx context.Context) (*driving.Status, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	status := &driving.Status{
		StoreBackend:   s.backend,
		DistanceMetric: s.store.Metric().String(),
		DocumentCount:  count,
	}
	if s.embedder != nil {
		status.EmbeddingModel = s.embedder.ModelName()
		status.EmbeddingDimensions = s.embedder.Dimensions()
	}
	if s.generator == nil {
		return status, nil
	}

	status.GenerationModel = s.generator.ModelName()
	status.GenerationAvailable = s.generator.IsAvailable(ctx)
	if lister, ok := s.generator.(driven.ModelLister); ok && status.GenerationAvailable {
		models, err := lister.ListModels(ctx)
		if err != nil {
			logger.Warn("Failed to list models: %v", err)
		} else {
			status.AvailableModels = models
		}
	}
	return status, nil
}
