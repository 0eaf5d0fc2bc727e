package driven

import "context"

// VectorIndex provides similarity search over chunk embeddings.
// The index is built once per document version and is read-only
// afterwards, so implementations only need to be safe for concurrent
// reads after the build completes.
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID. Returns an error if
	// the vector's dimensionality disagrees with the index.
	Add(ctx context.Context, chunkID int, embedding []float32) error

	// Search finds the k nearest neighbours to the query vector, ordered
	// by descending similarity. Ties break towards the lower chunk ID so
	// results are deterministic. k larger than the index returns all
	// entries.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of vectors in the index.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID int

	// Similarity is the cosine similarity score.
	Similarity float64
}
