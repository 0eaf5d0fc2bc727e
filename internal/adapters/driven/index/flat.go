// Package index provides an in-memory flat vector index with brute-force
// cosine similarity search.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
)

// Ensure Flat implements the interface.
var _ driven.VectorIndex = (*Flat)(nil)

// Flat is a brute-force cosine similarity index. Vectors are L2-normalised
// on insertion so search reduces to a dot product. The index is write-once:
// built during ingestion or startup restore, read-only afterwards, and safe
// for concurrent searches.
type Flat struct {
	mu        sync.RWMutex
	dimension int
	ids       []int
	vectors   [][]float32
	closed    bool
}

// New creates an empty flat index for vectors of the given dimension.
func New(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, errors.New("index: dimension must be positive")
	}
	return &Flat{dimension: dimension}, nil
}

// Add inserts a vector for the given chunk ID.
func (f *Flat) Add(_ context.Context, chunkID int, embedding []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return errors.New("index: closed")
	}
	if len(embedding) != f.dimension {
		return fmt.Errorf("index: embedding dimension %d does not match index dimension %d",
			len(embedding), f.dimension)
	}

	f.ids = append(f.ids, chunkID)
	f.vectors = append(f.vectors, normalise(embedding))
	return nil
}

// Search finds the k nearest neighbours to the query vector. Results are
// ordered by descending similarity; equal scores break towards the lower
// chunk ID so ranking is deterministic. k beyond the index size returns
// every entry.
func (f *Flat) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, errors.New("index: closed")
	}
	if k < 1 {
		return nil, errors.New("index: k must be at least 1")
	}
	if len(query) != f.dimension {
		return nil, fmt.Errorf("index: query dimension %d does not match index dimension %d",
			len(query), f.dimension)
	}
	if len(f.vectors) == 0 {
		return nil, domain.ErrEmptyIndex
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = driven.VectorHit{ChunkID: f.ids[i], Similarity: dot(v, q)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of vectors in the index.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

// Close releases resources.
func (f *Flat) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.ids = nil
	f.vectors = nil
	return nil
}

// normalise returns an L2-normalised copy of v. The zero vector is
// returned unchanged rather than divided by zero.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}

	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
