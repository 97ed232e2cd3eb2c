package ratelimit

import (
	"context"
	"fmt"

	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Ensure decorators implement the interfaces.
var (
	_ driven.EmbeddingProvider  = (*EmbeddingProvider)(nil)
	_ driven.GenerationProvider = (*GenerationProvider)(nil)
	_ driven.ModelLister        = (*GenerationProvider)(nil)
)

// EmbeddingProvider waits on a limiter before each embedding call.
type EmbeddingProvider struct {
	next    driven.EmbeddingProvider
	limiter *Limiter
}

// NewEmbeddingProvider wraps next with the limiter.
func NewEmbeddingProvider(next driven.EmbeddingProvider, limiter *Limiter) *EmbeddingProvider {
	return &EmbeddingProvider{next: next, limiter: limiter}
}

// Embed waits for a token and delegates.
func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vec, err := p.next.Embed(ctx, text)
	p.limiter.observe(err)
	return vec, err
}

// EmbedBatch waits for a single token and delegates the whole batch.
func (p *EmbeddingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vecs, err := p.next.EmbedBatch(ctx, texts)
	p.limiter.observe(err)
	return vecs, err
}

// Dimensions delegates.
func (p *EmbeddingProvider) Dimensions() int { return p.next.Dimensions() }

// ModelName delegates.
func (p *EmbeddingProvider) ModelName() string { return p.next.ModelName() }

// Ping delegates without consuming a token.
func (p *EmbeddingProvider) Ping(ctx context.Context) error { return p.next.Ping(ctx) }

// Close delegates.
func (p *EmbeddingProvider) Close() error { return p.next.Close() }

// GenerationProvider waits on a limiter before each generation call.
type GenerationProvider struct {
	next    driven.GenerationProvider
	limiter *Limiter
}

// NewGenerationProvider wraps next with the limiter.
func NewGenerationProvider(next driven.GenerationProvider, limiter *Limiter) *GenerationProvider {
	return &GenerationProvider{next: next, limiter: limiter}
}

// Generate waits for a token and delegates.
func (p *GenerationProvider) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	text, err := p.next.Generate(ctx, prompt, opts)
	p.limiter.observe(err)
	return text, err
}

// IsAvailable delegates.
func (p *GenerationProvider) IsAvailable(ctx context.Context) bool { return p.next.IsAvailable(ctx) }

// ListModels delegates when the wrapped provider can list models.
func (p *GenerationProvider) ListModels(ctx context.Context) ([]string, error) {
	lister, ok := p.next.(driven.ModelLister)
	if !ok {
		return nil, fmt.Errorf("model listing not supported by %s", p.next.ModelName())
	}
	return lister.ListModels(ctx)
}

// ModelName delegates.
func (p *GenerationProvider) ModelName() string { return p.next.ModelName() }

// Ping delegates without consuming a token.
func (p *GenerationProvider) Ping(ctx context.Context) error { return p.next.Ping(ctx) }

// Close delegates.
func (p *GenerationProvider) Close() error { return p.next.Close() }
