package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/viva-cli/internal/logger"
)

// Retriever returns the chunks most similar to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)
}

// Ensure RetrievalService implements the interface.
var _ Retriever = (*RetrievalService)(nil)

// RetrievalService embeds a query and finds the nearest stored chunks.
// Chunk texts are loaded from the knowledge store once and then served
// from memory; the store is read-only after startup.
type RetrievalService struct {
	store    driven.KnowledgeStore
	index    driven.VectorIndex
	embedder driven.EmbeddingService

	loadOnce sync.Once
	loadErr  error
	chunks   map[int]domain.Chunk
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	store driven.KnowledgeStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
) *RetrievalService {
	return &RetrievalService{
		store:    store,
		index:    index,
		embedder: embedder,
	}
}

// Retrieve returns the top-k chunks most similar to the query, best first.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if err := s.ensureChunks(ctx); err != nil {
		return nil, fmt.Errorf("%w: load chunk texts: %w", domain.ErrRetrieval, err)
	}

	logger.Debug("Retrieval: query=%q, k=%d", query, k)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}

	hits, err := s.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("%w: search index: %w", domain.ErrRetrieval, err)
	}
	logger.Debug("Retrieval: %d hits", len(hits))

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := s.chunks[hit.ChunkID]
		if !ok {
			// Index and store disagree about this chunk
			return nil, fmt.Errorf("%w: chunk %d missing from store", domain.ErrRetrieval, hit.ChunkID)
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:      chunk,
			Similarity: hit.Similarity,
		})
	}

	return results, nil
}

// ensureChunks loads chunk texts from the store on first use.
func (s *RetrievalService) ensureChunks(ctx context.Context) error {
	s.loadOnce.Do(func() {
		chunks, err := s.store.Chunks(ctx)
		if err != nil {
			s.loadErr = err
			return
		}
		s.chunks = make(map[int]domain.Chunk, len(chunks))
		for i := range chunks {
			// Embeddings live in the vector index; drop them here to
			// keep the text cache small.
			chunk := chunks[i]
			chunk.Embedding = nil
			s.chunks[chunk.ID] = chunk
		}
	})
	return s.loadErr
}
