package driven

import (
	"context"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

// Well-known metadata keys recorded alongside a persisted index.
// Restore validates these against the configured embedder so a model
// switch cannot silently produce nonsense similarity scores.
const (
	// MetaEmbeddingModel is the embedder model name used at build time.
	MetaEmbeddingModel = "embedding_model"

	// MetaEmbeddingDimensions is the embedding vector size at build time.
	MetaEmbeddingDimensions = "embedding_dimensions"
)

// KnowledgeStore persists the ingested document, its chunks and their
// embeddings. Together with the in-memory VectorIndex rebuilt from it at
// startup it forms the durable knowledge index: chunk texts and ids are
// stored alongside the vector encoding so metadata survives restore.
type KnowledgeStore interface {
	// SaveDocument stores the ingested document's metadata.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks with their embeddings, replacing nothing:
	// callers Reset first when re-ingesting.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// Document returns the most recently ingested document, or
	// domain.ErrNotFound when the store is empty.
	Document(ctx context.Context) (*domain.Document, error)

	// Chunks returns all stored chunks in chunk-ID order.
	Chunks(ctx context.Context) ([]domain.Chunk, error)

	// ChunkCount returns the number of stored chunks.
	ChunkCount(ctx context.Context) (int, error)

	// GetMeta returns the value for a metadata key, or domain.ErrNotFound.
	GetMeta(ctx context.Context, key string) (string, error)

	// SetMeta stores a metadata key/value pair.
	SetMeta(ctx context.Context, key, value string) error

	// Reset removes all documents, chunks and metadata.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
