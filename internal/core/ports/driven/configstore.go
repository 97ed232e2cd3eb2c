package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation ("generation.model"); implementations handle
// persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if missing or not a string.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if missing or not numeric.
	GetInt(key string) int

	// GetFloat retrieves a float value, or 0 if missing or not numeric.
	GetFloat(key string) float64

	// GetStringSlice retrieves a string slice, or nil if missing.
	GetStringSlice(key string) []string

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Delete removes a key and persists immediately.
	Delete(key string) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
