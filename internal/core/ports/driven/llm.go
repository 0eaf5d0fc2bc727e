package driven

import "context"

// LLMService provides language model text generation.
// Each call is a single blocking round trip: the service performs no
// internal retry or backoff, and a failure surfaces immediately so the
// caller can apply its own fail-open or fail-closed policy.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI-compatible APIs (OpenAI, Groq)
//   - Anthropic (Claude)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup so a misconfigured service fails fast.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
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
