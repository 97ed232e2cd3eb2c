// Package embedding holds the batching shared by embedding provider adapters.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// DefaultConcurrency bounds how many sub-batches are in flight at once.
const DefaultConcurrency = 4

// BatchFunc embeds a non-empty slice of non-blank texts and returns one
// vector per text in input order.
type BatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Batcher splits embedding batches into bounded sub-batches and embeds them concurrently.
type Batcher struct {
	// Size is the maximum number of texts per provider call.
	Size int

	// Concurrency is the maximum number of provider calls in flight.
	Concurrency int

	// Embed performs one provider call.
	Embed BatchFunc

	// Dimensions is the vector length every result must have. Zero skips the check.
	Dimensions int
}

// checkDimensions rejects any vector whose length is not b.Dimensions.
func (b Batcher) checkDimensions(vectors [][]float32) error {
	if b.Dimensions <= 0 {
		return nil
	}
	for _, vector := range vectors {
		if len(vector) != b.Dimensions {
			return fmt.Errorf("%w: %w: got %d values, want %d",
				domain.ErrEmbeddingFailed, domain.ErrDimensionMismatch, len(vector), b.Dimensions)
		}
	}
	return nil
}

// EmbedOne embeds a single text.
// Returns domain.ErrEmptyInput if the text is blank after trimming.
func (b Batcher) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}
	vectors, err := b.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}
	if err := b.checkDimensions(vectors); err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedAll drops blank texts and embeds the rest, keeping input order.
// Returns domain.ErrNoValidInput if every text is blank.
func (b Batcher) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	valid := make([]string, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) != "" {
			valid = append(valid, text)
		}
	}
	if len(valid) == 0 {
		return nil, domain.ErrNoValidInput
	}

	size := b.Size
	if size <= 0 {
		size = len(valid)
	}
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([][]float32, len(valid))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for start := 0; start < len(valid); start += size {
		end := min(start+size, len(valid))
		chunk := valid[start:end]
		g.Go(func() error {
			vectors, err := b.Embed(gctx, chunk)
			if err != nil {
				return fmt.Errorf("embed texts %d-%d: %w", start+1, end, err)
			}
			if len(vectors) != len(chunk) {
				return fmt.Errorf("embed texts %d-%d: expected %d embeddings, got %d",
					start+1, end, len(chunk), len(vectors))
			}
			if err := b.checkDimensions(vectors); err != nil {
				return fmt.Errorf("embed texts %d-%d: %w", start+1, end, err)
			}
			copy(results[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
