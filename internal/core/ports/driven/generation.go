package driven

import "context"

// GenerationProvider maps a composed prompt to generated text.
// The model itself is a black box; callers only rely on this contract.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o family)
//   - Anthropic (Claude)
type GenerationProvider interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// IsAvailable reports whether the provider can currently serve requests.
	IsAvailable(ctx context.Context) bool

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ModelLister is an optional capability of generation providers that can
// enumerate the models they serve.
type ModelLister interface {
	// ListModels returns the names of the available models.
	ListModels(ctx context.Context) ([]string, error)
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
