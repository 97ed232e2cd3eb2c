// Package env overlays NORMAQ_* environment variables onto application settings.
package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// Prefix is shared by every recognised variable.
const Prefix = "NORMAQ_"

// Variable names.
const (
	EmbeddingProvider  = Prefix + "EMBEDDING_PROVIDER"
	EmbeddingModel     = Prefix + "EMBEDDING_MODEL"
	EmbeddingBaseURL   = Prefix + "EMBEDDING_BASE_URL"
	EmbeddingAPIKey    = Prefix + "EMBEDDING_API_KEY"
	GenerationProvider = Prefix + "GENERATION_PROVIDER"
	GenerationModel    = Prefix + "GENERATION_MODEL"
	GenerationBaseURL  = Prefix + "GENERATION_BASE_URL"
	GenerationAPIKey   = Prefix + "GENERATION_API_KEY"
	GenerationTimeout  = Prefix + "GENERATION_TIMEOUT"
	StoreBackend       = Prefix + "STORE_BACKEND"
	StorePath          = Prefix + "STORE_PATH"
	StoreDSN           = Prefix + "STORE_DSN"
	StoreMetric        = Prefix + "STORE_METRIC"
	ServerAddr         = Prefix + "SERVER_ADDR"
	AllowedOrigins     = Prefix + "ALLOWED_ORIGINS"
	RateLimitRPS       = Prefix + "RATE_LIMIT_RPS"
	RateLimitBurst     = Prefix + "RATE_LIMIT_BURST"
	Verbose            = Prefix + "VERBOSE"
)

// providerKeys are the vendor variables used when no NORMAQ_ key is set.
var providerKeys = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv reads .env files into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Apply overlays the process environment onto settings.
func Apply(settings *domain.AppSettings) error {
	return ApplyLookup(settings, os.LookupEnv)
}

// ApplyLookup overlays variables found by lookup onto settings.
// Invalid values are collected and returned together; valid ones still apply.
func ApplyLookup(settings *domain.AppSettings, lookup LookupFunc) error {
	o := overlay{lookup: lookup}

	if p, ok := o.provider(EmbeddingProvider); ok {
		settings.Embedding.Provider = p
	}
	o.str(EmbeddingModel, &settings.Embedding.Model)
	o.str(EmbeddingBaseURL, &settings.Embedding.BaseURL)
	o.str(EmbeddingAPIKey, &settings.Embedding.APIKey)

	if p, ok := o.provider(GenerationProvider); ok {
		settings.Generation.Provider = p
	}
	o.str(GenerationModel, &settings.Generation.Model)
	o.str(GenerationBaseURL, &settings.Generation.BaseURL)
	o.str(GenerationAPIKey, &settings.Generation.APIKey)
	if d, ok := o.duration(GenerationTimeout); ok {
		settings.Generation.Timeout = d
	}

	if v, ok := o.get(StoreBackend); ok {
		b := domain.StoreBackend(strings.ToLower(v))
		if b.IsValid() {
			settings.Store.Backend = b
		} else {
			o.invalid(StoreBackend, v)
		}
	}
	o.str(StorePath, &settings.Store.Path)
	o.str(StoreDSN, &settings.Store.DSN)
	if v, ok := o.get(StoreMetric); ok {
		m := domain.DistanceMetric(strings.ToLower(v))
		if m.IsValid() {
			settings.Store.Metric = m
		} else {
			o.invalid(StoreMetric, v)
		}
	}

	o.str(ServerAddr, &settings.Server.Addr)
	if v, ok := o.get(AllowedOrigins); ok {
		settings.Server.AllowedOrigins = splitList(v)
	}

	if v, ok := o.get(RateLimitRPS); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			settings.RateLimit.RequestsPerSecond = f
		} else {
			o.invalid(RateLimitRPS, v)
		}
	}
	if v, ok := o.get(RateLimitBurst); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			settings.RateLimit.Burst = n
		} else {
			o.invalid(RateLimitBurst, v)
		}
	}

	if settings.Embedding.APIKey == "" {
		o.str(providerKeys[settings.Embedding.Provider], &settings.Embedding.APIKey)
	}
	if settings.Generation.APIKey == "" {
		o.str(providerKeys[settings.Generation.Provider], &settings.Generation.APIKey)
	}

	return errors.Join(o.errs...)
}

// VerboseRequested reports whether NORMAQ_VERBOSE holds a true value.
func VerboseRequested(lookup LookupFunc) bool {
	v, ok := lookup(Verbose)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

type overlay struct {
	lookup LookupFunc
	errs   []error
}

// get returns a trimmed, non-empty value.
func (o *overlay) get(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	v, ok := o.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (o *overlay) str(key string, dst *string) {
	if v, ok := o.get(key); ok {
		*dst = v
	}
}

func (o *overlay) provider(key string) (domain.AIProvider, bool) {
	v, ok := o.get(key)
	if !ok {
		return "", false
	}
	p := domain.AIProvider(strings.ToLower(v))
	if !p.IsValid() {
		o.invalid(key, v)
		return "", false
	}
	return p, true
}

// duration accepts Go durations ("45s") or whole seconds ("45").
func (o *overlay) duration(key string) (time.Duration, bool) {
	v, ok := o.get(key)
	if !ok {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second, true
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d, true
	}
	o.invalid(key, v)
	return 0, false
}

func (o *overlay) invalid(key, value string) {
	o.errs = append(o.errs, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, key, value))
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
