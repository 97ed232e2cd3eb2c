package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GenerationProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGenerationProvider(Config{APIKey: "sk-ant-test", BaseURL: server.URL + "/"})
	require.NoError(t, err)
	return p
}

func TestNewGenerationProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerationProvider(Config{})
	assert.Error(t, err)
}

func TestGenerationProvider_Generate(t *testing.T) {
	var got messagesRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Ten days "},{"type":"text","text":"notice."}],"stop_reason":"end_turn"}`))
	})

	answer, err := p.Generate(context.Background(), "prompt text", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Ten days notice.", answer)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "prompt text", got.Messages[0].Content)
}

func TestGenerationProvider_Generate_APIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := p.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
	assert.Contains(t, err.Error(), "401")
}

func TestGenerationProvider_Generate_NoText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	_, err := p.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	assert.Error(t, err)
}

func TestGenerationProvider_ListModels(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"claude-3-5-haiku-latest"},{"id":"claude-sonnet-4-0"}]}`))
	})

	models, err := p.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"claude-3-5-haiku-latest", "claude-sonnet-4-0"}, models)
	assert.True(t, p.IsAvailable(context.Background()))
}

func TestGenerationProvider_Ping_Error(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`forbidden`))
	})

	err := p.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.False(t, p.IsAvailable(context.Background()))
}
