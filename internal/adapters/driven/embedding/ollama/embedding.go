// Package ollama provides an embedding provider adapter using Ollama.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/normaq/internal/adapters/driven/embedding"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Ensure EmbeddingProvider implements the interface.
var _ driven.EmbeddingProvider = (*EmbeddingProvider)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = domain.DefaultOllamaBaseURL
	DefaultModel     = "all-minilm"
	DefaultTimeout   = 30 * time.Second
	DefaultBatchSize = 32
)

// Config holds configuration for the Ollama embedding provider.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: all-minilm).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions is the embedding vector size. When zero it is looked up
	// for known models, otherwise learned by DetectDimensions.
	Dimensions int

	// BatchSize is the maximum number of texts per request (default: 32).
	BatchSize int
}

// EmbeddingProvider generates embeddings using Ollama's /api/embed endpoint.
type EmbeddingProvider struct {
	client     *api.Client
	model      string
	dimensions int
	batcher    embedding.Batcher
}

// NewEmbeddingProvider creates a new Ollama embedding provider.
func NewEmbeddingProvider(cfg Config) (*EmbeddingProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = domain.EmbeddingDimensions()[cfg.Model]
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base URL: %w", err)
	}

	p := &EmbeddingProvider{
		client:     api.NewClient(u, &http.Client{Timeout: cfg.Timeout}),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
	p.batcher = embedding.Batcher{
		Size:        cfg.BatchSize,
		Concurrency: embedding.DefaultConcurrency,
		Embed:       p.embed,
		Dimensions:  cfg.Dimensions,
	}
	return p, nil
}

// Embed generates a vector embedding for the given text.
func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.batcher.EmbedOne(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts, dropping blank ones.
func (p *EmbeddingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return p.batcher.EmbedAll(ctx, texts)
}

// embed performs one /api/embed call.
func (p *EmbeddingProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.Embed(ctx, &api.EmbedRequest{
		Model: p.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: embed: %w", err)
	}
	return resp.Embeddings, nil
}

// Dimensions returns the embedding vector size, or 0 for an unknown model
// whose size has not been detected yet.
func (p *EmbeddingProvider) Dimensions() int {
	return p.dimensions
}

// DetectDimensions embeds a short sample to learn the model's vector size
// and checks every later embedding against it. A known size is returned as is.
// Not safe to call concurrently with Embed or EmbedBatch.
func (p *EmbeddingProvider) DetectDimensions(ctx context.Context) (int, error) {
	if p.dimensions > 0 {
		return p.dimensions, nil
	}
	vectors, err := p.embed(ctx, []string{"dimension check"})
	if err != nil {
		return 0, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return 0, fmt.Errorf("ollama: model %s returned no embedding", p.model)
	}
	p.dimensions = len(vectors[0])
	p.batcher.Dimensions = p.dimensions
	return p.dimensions, nil
}

// ModelName returns the name of the embedding model being used.
func (p *EmbeddingProvider) ModelName() string {
	return p.model
}

// Ping validates the service is reachable by listing local models.
// This is a lightweight check that validates connectivity without running inference.
func (p *EmbeddingProvider) Ping(ctx context.Context) error {
	if _, err := p.client.List(ctx); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (p *EmbeddingProvider) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
