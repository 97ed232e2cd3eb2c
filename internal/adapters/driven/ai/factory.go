// Package ai provides factory functions for creating AI provider adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/normaq/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/normaq/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/normaq/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/normaq/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/normaq/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/normaq/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// detectTimeout bounds the sample embedding used to learn a model's vector
// size. The first call may load the model.
const detectTimeout = 60 * time.Second

// dimensionDetector is implemented by embedding providers that can learn
// the vector size of a model they have no table entry for.
type dimensionDetector interface {
	DetectDimensions(ctx context.Context) (int, error)
}

// Providers holds the AI providers built from settings.
// Generator is nil when generation is not configured or could not be created;
// the retrieval pipeline then answers in degraded mode.
type Providers struct {
	Embedder  driven.EmbeddingProvider
	Generator driven.GenerationProvider
	Warnings  []string // Non-fatal issues found while building.
}

// Close releases all resources held by the providers.
func (p *Providers) Close() {
	if p.Embedder != nil {
		p.Embedder.Close()
	}
	if p.Generator != nil {
		p.Generator.Close()
	}
}

// NewProviders builds the embedding and generation providers.
// The embedding provider is required; an unreachable one is only a warning
// since the service may start before the model server does.
func NewProviders(ctx context.Context, settings *domain.AppSettings) (*Providers, error) {
	result := &Providers{}

	embedder, err := CreateEmbeddingProvider(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'normaq settings wizard' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured. Run 'normaq settings wizard' to fix",
			domain.ErrEmbeddingUnavailable)
	}
	if err := ping(ctx, embedder.Ping); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("embedding provider %s unreachable: %v", settings.Embedding.Provider, err))
	}
	if err := detectDimensions(ctx, embedder); err != nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	generator, err := CreateGenerationProvider(&settings.Generation)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("generation disabled: %v", err))
	case generator == nil:
		result.Warnings = append(result.Warnings,
			"generation disabled: no generation provider configured")
	}

	if settings.RateLimit.Enabled() {
		if !settings.Embedding.Provider.IsLocal() {
			embedder = ratelimit.NewEmbeddingProvider(embedder, ratelimit.NewLimiter(settings.RateLimit))
		}
		if generator != nil && !settings.Generation.Provider.IsLocal() {
			generator = ratelimit.NewGenerationProvider(generator, ratelimit.NewLimiter(settings.RateLimit))
		}
	}

	result.Embedder = embedder
	result.Generator = generator
	return result, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a provider and pinging it.
// This is intended for use in the settings wizard to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	p, err := CreateEmbeddingProvider(settings)
	if err != nil || p == nil {
		return err
	}
	defer p.Close()
	return ping(context.Background(), p.Ping)
}

// ValidateGenerationConfig validates a generation configuration by creating a provider and pinging it.
// This is intended for use in the settings wizard to validate credentials on configuration.
func ValidateGenerationConfig(settings *domain.GenerationSettings) error {
	p, err := CreateGenerationProvider(settings)
	if err != nil || p == nil {
		return err
	}
	defer p.Close()
	return ping(context.Background(), p.Ping)
}

// CreateEmbeddingProvider creates the embedding provider named by settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic {
		// Anthropic does not offer embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings)

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateGenerationProvider creates the generation provider named by settings.
// Returns nil if the provider is not configured.
func CreateGenerationProvider(settings *domain.GenerationSettings) (driven.GenerationProvider, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaGeneration(settings)

	case domain.AIProviderOpenAI:
		return createOpenAIGeneration(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicGeneration(settings)

	default:
		return nil, fmt.Errorf("%w: generation provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding provider.
// Models missing from the dimension table report 0 until detected.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	p, err := ollamaembed.NewEmbeddingProvider(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// createOpenAIEmbedding creates an OpenAI embedding provider.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	p, err := openaiembed.NewEmbeddingProvider(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// createOllamaGeneration creates an Ollama generation provider.
func createOllamaGeneration(settings *domain.GenerationSettings) (driven.GenerationProvider, error) {
	p, err := ollamallm.NewGenerationProvider(ollamallm.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// createOpenAIGeneration creates an OpenAI generation provider.
func createOpenAIGeneration(settings *domain.GenerationSettings) (driven.GenerationProvider, error) {
	p, err := openaillm.NewGenerationProvider(openaillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// createAnthropicGeneration creates an Anthropic generation provider.
func createAnthropicGeneration(settings *domain.GenerationSettings) (driven.GenerationProvider, error) {
	p, err := anthropicllm.NewGenerationProvider(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// detectDimensions makes sure the embedder knows its vector size before a
// store is bound to it.
func detectDimensions(ctx context.Context, embedder driven.EmbeddingProvider) error {
	if embedder.Dimensions() > 0 {
		return nil
	}
	detector, ok := embedder.(dimensionDetector)
	if !ok {
		return fmt.Errorf("unknown vector size for model %s", embedder.ModelName())
	}
	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()
	if _, err := detector.DetectDimensions(ctx); err != nil {
		return fmt.Errorf("detect vector size for model %s: %w", embedder.ModelName(), err)
	}
	return nil
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}
