package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/normaq/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("generation.provider", "anthropic")
	_ = store.Set("generation.timeout_seconds", int64(45))
	_ = store.Set("store.backend", "postgres")
	_ = store.Set("store.dsn", "postgres://localhost/normaq")
	_ = store.Set("store.metric", "l2")
	_ = store.Set("server.addr", ":9000")
	_ = store.Set("server.allowed_origins", []any{"https://docs.example.com"})
	_ = store.Set("ratelimit.requests_per_second", 2.5)
	_ = store.Set("ratelimit.burst", 4)

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Empty(t, settings.Embedding.BaseURL)
	assert.Equal(t, domain.AIProviderAnthropic, settings.Generation.Provider)
	assert.Equal(t, 45*time.Second, settings.Generation.Timeout)
	assert.Equal(t, domain.StorePostgres, settings.Store.Backend)
	assert.Equal(t, "postgres://localhost/normaq", settings.Store.DSN)
	assert.Equal(t, domain.DistanceL2, settings.Store.Metric)
	assert.Equal(t, ":9000", settings.Server.Addr)
	assert.Equal(t, []string{"https://docs.example.com"}, settings.Server.AllowedOrigins)
	assert.InDelta(t, 2.5, settings.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, 4, settings.RateLimit.Burst)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("store.backend", "cassandra")
	_ = store.Set("store.metric", "manhattan")
	_ = store.Set("generation.timeout_seconds", -5)

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Store.Backend, settings.Store.Backend)
	assert.Equal(t, defaults.Store.Metric, settings.Store.Metric)
	assert.Equal(t, defaults.Generation.Timeout, settings.Generation.Timeout)
}

func TestSettingsService_SaveAndGet(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			APIKey:   "sk-test-key",
		},
		Generation: domain.GenerationSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-3-5-haiku-latest",
			APIKey:   "sk-ant-test",
			Timeout:  20 * time.Second,
		},
		Store: domain.StoreSettings{
			Backend: domain.StoreMemory,
			Metric:  domain.DistanceL2,
		},
		Server: domain.ServerSettings{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		RateLimit: domain.RateLimitSettings{RequestsPerSecond: 1, Burst: 2},
	}

	require.NoError(t, service.Save(settings))

	retrieved, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, *settings, *retrieved)
}

func TestSettingsService_Save_EmptyAPIKeyKeepsStored(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("generation.api_key", "sk-existing")
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "sk-existing", store.GetString("generation.api_key"))
}

// Mock config store that fails on Set.
type failingConfigStore struct {
	*memory.ConfigStore
	failOn string
}

func (f *failingConfigStore) Set(key string, value any) error {
	if f.failOn == "" || key == f.failOn {
		return assert.AnError
	}
	return f.ConfigStore.Set(key, value)
}

func TestSettingsService_Save_Errors(t *testing.T) {
	keys := []string{
		"embedding.provider",
		"embedding.model",
		"generation.provider",
		"generation.timeout_seconds",
		"store.backend",
		"store.metric",
		"server.addr",
		"ratelimit.burst",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			store := &failingConfigStore{ConfigStore: memory.NewConfigStore(), failOn: key}
			service := NewSettingsService(store, nil)
			settings := domain.DefaultAppSettings()

			err := service.Save(&settings)

			require.Error(t, err)
			assert.ErrorIs(t, err, assert.AnError)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name        string
		provider    domain.AIProvider
		model       string
		apiKey      string
		wantModel   string
		wantBaseURL string
	}{
		{"ollama default model", domain.AIProviderOllama, "", "", "all-minilm", domain.DefaultOllamaBaseURL},
		{"ollama custom model", domain.AIProviderOllama, "nomic-embed-text", "", "nomic-embed-text", domain.DefaultOllamaBaseURL},
		{"openai", domain.AIProviderOpenAI, "", "sk-test", "text-embedding-3-small", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			require.NoError(t, service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey))

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantModel, settings.Embedding.Model)
			assert.Equal(t, tt.wantBaseURL, settings.Embedding.BaseURL)
			assert.Equal(t, tt.apiKey, settings.Embedding.APIKey)
		})
	}
}

func TestSettingsService_SetEmbeddingProvider_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Error(t, service.SetEmbeddingProvider("invalid", "", ""))
	assert.Error(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", ""))

	err := service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "sk-ant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
}

func TestSettingsService_SetEmbeddingProvider_PreservesExistingBaseURL(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.base_url", "http://gpu-box:11434")
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

	assert.Equal(t, "http://gpu-box:11434", store.GetString("embedding.base_url"))
}

func TestSettingsService_SetGenerationProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  domain.AIProvider
		apiKey    string
		wantModel string
	}{
		{"ollama", domain.AIProviderOllama, "", "llama3.2:1b"},
		{"openai", domain.AIProviderOpenAI, "sk-test", "gpt-4o-mini"},
		{"anthropic", domain.AIProviderAnthropic, "sk-ant", "claude-3-5-haiku-latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			require.NoError(t, service.SetGenerationProvider(tt.provider, "", tt.apiKey))

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Generation.Provider)
			assert.Equal(t, tt.wantModel, settings.Generation.Model)
		})
	}
}

func TestSettingsService_SetGenerationProvider_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Error(t, service.SetGenerationProvider("invalid", "", ""))
	assert.Error(t, service.SetGenerationProvider(domain.AIProviderAnthropic, "", ""))
}

func TestSettingsService_SetStore(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetStore(domain.StorePostgres, "postgres://db/normaq", domain.DistanceL2))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorePostgres, settings.Store.Backend)
	assert.Equal(t, "postgres://db/normaq", settings.Store.DSN)
	assert.Equal(t, domain.DistanceL2, settings.Store.Metric)

	require.NoError(t, service.SetStore(domain.StoreSQLite, "/var/lib/normaq", domain.DistanceCosine))
	settings, _ = service.Get()
	assert.Equal(t, "/var/lib/normaq", settings.Store.Path)
}

func TestSettingsService_SetStore_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Error(t, service.SetStore("cassandra", "", domain.DistanceCosine))
	assert.Error(t, service.SetStore(domain.StoreMemory, "", "manhattan"))
	assert.Error(t, service.SetStore(domain.StorePostgres, "", domain.DistanceCosine))
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{"defaults", nil, ""},
		{"openai embedding without key", map[string]any{"embedding.provider": "openai"}, "embedding provider"},
		{"anthropic embedding", map[string]any{"embedding.provider": "anthropic"}, "embedding provider"},
		{"anthropic generation without key", map[string]any{"generation.provider": "anthropic"}, "generation provider"},
		{"postgres without dsn", map[string]any{"store.backend": "postgres"}, "connection string"},
		{"negative rate limit", map[string]any{"ratelimit.requests_per_second": -1.0}, "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			for k, v := range tt.values {
				_ = store.Set(k, v)
			}

			err := NewSettingsService(store, nil).Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

// Mock AIConfigValidator for testing.
type mockAIConfigValidator struct {
	embedErr error
	genErr   error
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockAIConfigValidator) ValidateGeneration(_ *domain.GenerationSettings) error {
	return m.genErr
}

func TestSettingsService_ValidateProviderConfig(t *testing.T) {
	nilValidator := NewSettingsService(memory.NewConfigStore(), nil)
	assert.NoError(t, nilValidator.ValidateEmbeddingConfig())
	assert.NoError(t, nilValidator.ValidateGenerationConfig())

	ok := NewSettingsService(memory.NewConfigStore(), &mockAIConfigValidator{})
	assert.NoError(t, ok.ValidateEmbeddingConfig())
	assert.NoError(t, ok.ValidateGenerationConfig())

	failing := NewSettingsService(memory.NewConfigStore(), &mockAIConfigValidator{
		embedErr: assert.AnError,
		genErr:   assert.AnError,
	})
	assert.ErrorIs(t, failing.ValidateEmbeddingConfig(), assert.AnError)
	assert.ErrorIs(t, failing.ValidateGenerationConfig(), assert.AnError)
}
