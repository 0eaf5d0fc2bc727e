package driven

// Config keys used across the application. Nested TOML tables flatten to
// dot-notation keys.
const (
	ConfigDataDir           = "data_dir"
	ConfigChunkSize         = "ingest.chunk_size"
	ConfigChunkOverlap      = "ingest.overlap"
	ConfigRetrievalTopK     = "retrieval.top_k"
	ConfigEmbeddingProvider = "embedding.provider"
	ConfigEmbeddingModel    = "embedding.model"
	ConfigEmbeddingBaseURL  = "embedding.base_url"
	ConfigEmbeddingAPIKey   = "embedding.api_key"
	ConfigLLMProvider       = "llm.provider"
	ConfigLLMModel          = "llm.model"
	ConfigLLMBaseURL        = "llm.base_url"
	ConfigLLMAPIKey         = "llm.api_key"
	ConfigLLMRateLimit      = "llm.requests_per_minute"
)

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
