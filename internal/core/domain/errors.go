package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates a source document yielded no usable text
	// (unreadable or image-only). Fatal to index construction, not retried.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrEmptyIndex indicates an index build was attempted with zero chunks.
	ErrEmptyIndex = errors.New("cannot build index from zero chunks")

	// ErrIndexNotFound indicates no persisted knowledge index exists.
	// Fatal at startup: the service cannot run interviews without one.
	ErrIndexNotFound = errors.New("knowledge index not found")

	// ErrIndexCorrupt indicates the persisted index failed validation
	// (for example, stored embeddings disagree on dimensionality).
	ErrIndexCorrupt = errors.New("knowledge index corrupt")

	// ErrRetrieval indicates an embedding or search failure during a live
	// request. Scoped to that turn; session state is unchanged.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates a text-generation call failed.
	ErrGeneration = errors.New("generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured or
	// unreachable. Interviews cannot run without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Ingestion and retrieval need it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
