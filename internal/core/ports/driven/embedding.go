package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// The same service must be used at index build time and at query time;
// the contract assumes determinism (same text, same vector within
// tolerance), which the round-trip guarantees of the knowledge index
// depend on.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// Results are returned in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is determined by the model and must match the vector index.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup so a misconfigured service fails fast.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
