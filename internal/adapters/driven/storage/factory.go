// Package storage selects and constructs the configured VectorStore backend.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// NewVectorStore creates the store named by settings.
// Dimensions is the embedding size of the provider bound to the store.
func NewVectorStore(ctx context.Context, settings domain.StoreSettings, dimensions int) (driven.VectorStore, error) {
	switch settings.Backend {
	case domain.StoreMemory:
		return memory.NewVectorStore(settings.Metric, dimensions), nil

	case domain.StoreSQLite, "":
		store, err := sqlite.NewStore(settings.Path, settings.Metric)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil

	case domain.StorePostgres:
		store, err := postgres.NewStore(ctx, postgres.Config{
			DSN:        settings.DSN,
			Metric:     settings.Metric,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: store backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}
