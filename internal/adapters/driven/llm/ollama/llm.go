// Package ollama provides a generation provider adapter using Ollama.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
	"github.com/custodia-labs/normaq/internal/logger"
)

// Ensure GenerationProvider implements the interfaces.
var (
	_ driven.GenerationProvider = (*GenerationProvider)(nil)
	_ driven.ModelLister        = (*GenerationProvider)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL      = domain.DefaultOllamaBaseURL
	DefaultModel        = "llama3.2:1b"
	DefaultTimeout      = 30 * time.Second
	availabilityTimeout = 5 * time.Second
)

// Config holds configuration for the Ollama generation provider.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2:1b).
	Model string

	// Timeout bounds one generation call (default: 30s).
	Timeout time.Duration
}

// GenerationProvider generates text using Ollama.
// It calls the native client first and falls back to a plain REST request
// when the client call fails for a reason other than cancellation.
type GenerationProvider struct {
	client  *api.Client
	http    *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewGenerationProvider creates a new Ollama generation provider.
func NewGenerationProvider(cfg Config) (*GenerationProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base URL: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &GenerationProvider{
		client:  api.NewClient(u, httpClient),
		http:    httpClient,
		baseURL: u.String(),
		model:   cfg.Model,
	}, nil
}

// Generate produces text completion from a prompt.
func (p *GenerationProvider) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	answer, err := p.generateNative(ctx, prompt, opts)
	if err == nil {
		return answer, nil
	}
	if ctx.Err() != nil {
		return "", describe(err)
	}

	logger.Debug("Ollama client generate failed, retrying over REST: %v", err)
	answer, err = p.generateREST(ctx, prompt, opts)
	if err != nil {
		return "", describe(err)
	}
	return answer, nil
}

// generateNative calls /api/generate through the Ollama client.
func (p *GenerationProvider) generateNative(
	ctx context.Context, prompt string, opts driven.GenerateOptions,
) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  p.model,
		Prompt: prompt,
		Stream: &stream,
	}
	if o := toOptions(opts); o != nil {
		req.Options = map[string]any{}
		if o.NumPredict > 0 {
			req.Options["num_predict"] = o.NumPredict
		}
		if o.Temperature > 0 {
			req.Options["temperature"] = o.Temperature
		}
		if len(o.Stop) > 0 {
			req.Options["stop"] = o.Stop
		}
	}

	var answer bytes.Buffer
	err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		answer.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer.String(), nil
}

// generateREST calls /api/generate with a plain HTTP request.
func (p *GenerationProvider) generateREST(
	ctx context.Context, prompt string, opts driven.GenerateOptions,
) (string, error) {
	jsonBody, err := json.Marshal(generateRequest{
		Model:   p.model,
		Prompt:  prompt,
		Stream:  false,
		Options: toOptions(opts),
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return genResp.Response, nil
}

func toOptions(opts driven.GenerateOptions) *options {
	if opts.MaxTokens <= 0 && opts.Temperature <= 0 && len(opts.StopWords) == 0 {
		return nil
	}
	return &options{
		NumPredict:  opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.StopWords,
	}
}

// describe turns transport failures into actionable messages.
func describe(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		return fmt.Errorf("ollama: timed out, the model may still be loading: %w", err)
	case isConnectionRefused(err):
		return fmt.Errorf("ollama: not running, start it with 'ollama serve': %w", err)
	default:
		return fmt.Errorf("ollama: %w", err)
	}
}

func isConnectionRefused(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// IsAvailable reports whether Ollama answers within five seconds.
func (p *GenerationProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()
	return p.Ping(ctx) == nil
}

// ListModels returns the names of the locally installed models.
func (p *GenerationProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ollama: list models: %w", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// ModelName returns the name of the model being used.
func (p *GenerationProvider) ModelName() string {
	return p.model
}

// Ping validates the service is reachable by listing local models.
// This is a lightweight check that validates connectivity without running inference.
func (p *GenerationProvider) Ping(ctx context.Context) error {
	if _, err := p.client.List(ctx); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (p *GenerationProvider) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
