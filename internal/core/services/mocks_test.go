package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Mock EmbeddingProvider returning a fixed vector.
type mockEmbedder struct {
	mu         sync.Mutex
	vector     []float32
	err        error
	batchErr   error
	calls      int
	batchCalls int
	texts      []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}
	m.calls++
	m.texts = append(m.texts, text)
	return m.vectorOrDefault(), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	var result [][]float32
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		result = append(result, m.vectorOrDefault())
	}
	if len(result) == 0 {
		return nil, domain.ErrNoValidInput
	}
	return result, nil
}

func (m *mockEmbedder) vectorOrDefault() []float32 {
	if m.vector != nil {
		return m.vector
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbedder) Dimensions() int {
	return len(m.vectorOrDefault())
}

func (m *mockEmbedder) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbedder) Ping(_ context.Context) error {
	return m.err
}

func (m *mockEmbedder) Close() error {
	return nil
}

// Mock GenerationProvider recording the prompts it receives.
type mockGenerator struct {
	answer    string
	err       error
	model     string
	available bool
	models    []string
	listErr   error
	prompts   []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockGenerator) IsAvailable(_ context.Context) bool {
	return m.available
}

func (m *mockGenerator) ModelName() string {
	if m.model == "" {
		return "mock-llm"
	}
	return m.model
}

func (m *mockGenerator) ListModels(_ context.Context) ([]string, error) {
	return m.models, m.listErr
}

func (m *mockGenerator) Ping(_ context.Context) error {
	return m.err
}

func (m *mockGenerator) Close() error {
	return nil
}

// Mock PromptStore.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	return m.template, m.err
}

func (m *mockPromptStore) Reload() {}

// failingVectorStore wraps the memory store and fails selected operations.
type failingVectorStore struct {
	*memory.VectorStore
	searchErr error
	putErr    error
	listErr   error
	countErr  error
	deleteErr error
}

func newFailingVectorStore() *failingVectorStore {
	return &failingVectorStore{VectorStore: memory.NewVectorStore(domain.DistanceCosine, 0)}
}

func (f *failingVectorStore) Search(ctx context.Context, vector []float32, k int) ([]domain.Document, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.VectorStore.Search(ctx, vector, k)
}

func (f *failingVectorStore) Put(ctx context.Context, doc domain.Document, vector []float32) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.VectorStore.Put(ctx, doc, vector)
}

func (f *failingVectorStore) List(ctx context.Context) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.VectorStore.List(ctx)
}

func (f *failingVectorStore) Count(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.VectorStore.Count(ctx)
}

func (f *failingVectorStore) Delete(ctx context.Context, id string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	return f.VectorStore.Delete(ctx, id)
}
