package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
	"github.com/custodia-labs/normaq/internal/logger"
)

// Ensure RetrievalPipeline implements the interface.
var _ driving.RetrievalPipeline = (*RetrievalPipeline)(nil)

// Answers returned in place of generated text when generation cannot run.
const (
	noGeneratorAnswer = "An answer could not be generated because no generation provider is configured. " +
		"The most relevant documents are listed with this result."
	generationFailedAnswer = "An answer could not be generated (%v). " +
		"The most relevant documents are listed with this result."
)

// RetrievalPipeline answers questions from stored documents:
// embed the question, search the store, assemble context, generate.
// It holds no mutable state and is safe for concurrent use.
type RetrievalPipeline struct {
	embedder  driven.EmbeddingProvider
	store     driven.VectorStore
	generator driven.GenerationProvider
	prompts   driven.PromptStore
	assembler *ContextAssembler
	options   driven.GenerateOptions
	now       func() time.Time
}

// NewRetrievalPipeline creates a new pipeline.
// The generator parameter is optional (can be nil); without it every answer
// is degraded but documents are still returned.
func NewRetrievalPipeline(
	embedder driven.EmbeddingProvider,
	store driven.VectorStore,
	generator driven.GenerationProvider,
) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder:  embedder,
		store:     store,
		generator: generator,
		assembler: NewContextAssembler(),
		now:       time.Now,
	}
}

// SetPromptStore sets the store the answer template is loaded from.
func (p *RetrievalPipeline) SetPromptStore(prompts driven.PromptStore) {
	p.prompts = prompts
}

// SetGenerateOptions sets the options passed to every generation call.
func (p *RetrievalPipeline) SetGenerateOptions(opts driven.GenerateOptions) {
	p.options = opts
}

// Query answers a question. Validation happens before any external call.
// Embedding and search failures abort the query; a generation failure only
// degrades the answer and the retrieved documents are still returned.
func (p *RetrievalPipeline) Query(ctx context.Context, q domain.Query) (*domain.RetrievalResult, error) {
	logger.Section("Query Execution")
	logger.Debug("Question: %q, limit: %d", q.Question, q.ResultLimit)

	start := p.now()

	if err := q.Validate(); err != nil {
		logger.Debug("Rejected query: %v", err)
		return nil, err
	}

	vector, err := p.embedder.Embed(ctx, q.Question)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return nil, domain.NewQueryError("question", "must contain embeddable text")
		}
		logger.Warn("Embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}
	logger.Debug("Embedded question into %d dimensions", len(vector))

	docs, err := p.store.Search(ctx, vector, q.ResultLimit)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}
	logger.Debug("Retrieved %d documents", len(docs))

	contextText := p.assembler.Build(docs)
	prompt := composeAnswerPrompt(p.prompts, contextText, q.Question)

	answer, degraded := p.generate(ctx, prompt)

	elapsed := p.now().Sub(start).Seconds()
	result := &domain.RetrievalResult{
		Answer:           answer,
		Documents:        docs,
		OriginalQuestion: q.Question,
		ElapsedSeconds:   &elapsed,
		Degraded:         degraded,
	}
	if p.generator != nil {
		model := p.generator.ModelName()
		result.ModelName = &model
	}

	logger.Debug("Answered in %.3fs (degraded: %v)", elapsed, degraded)
	return result, nil
}

// generate runs the generation step and reports whether the answer is degraded.
func (p *RetrievalPipeline) generate(ctx context.Context, prompt string) (string, bool) {
	if p.generator == nil {
		logger.Debug("No generation provider, returning documents only")
		return noGeneratorAnswer, true
	}

	answer, err := p.generator.Generate(ctx, prompt, p.options)
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return fmt.Sprintf(generationFailedAnswer, err), true
	}
	return answer, false
}
