package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/custodia-labs/viva-cli/internal/chunker"
	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/viva-cli/internal/logger"
	"github.com/custodia-labs/viva-cli/internal/normalisers"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService builds the knowledge index: it extracts text from a source
// document, splits it into chunks, embeds them and persists everything.
type IngestService struct {
	store            driven.KnowledgeStore
	index            driven.VectorIndex
	embedder         driven.EmbeddingService
	splitter         *chunker.Chunker
	selectNormaliser func(path string) (driven.Normaliser, error)
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	store driven.KnowledgeStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	splitter *chunker.Chunker,
) *IngestService {
	return &IngestService{
		store:            store,
		index:            index,
		embedder:         embedder,
		splitter:         splitter,
		selectNormaliser: normalisers.ForPath,
	}
}

// SetNormaliserFunc overrides source-format selection. Used in tests.
func (s *IngestService) SetNormaliserFunc(fn func(path string) (driven.Normaliser, error)) {
	s.selectNormaliser = fn
}

// Ingest extracts, chunks, embeds and persists the document at path.
// Any existing index content is replaced.
func (s *IngestService) Ingest(ctx context.Context, path string) (*driving.IngestStats, error) {
	logger.Section("Document Ingestion")
	logger.Debug("Source: %s", path)

	normaliser, err := s.selectNormaliser(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	doc, err := normaliser.Normalise(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("normalise document: %w", err)
	}
	logger.Debug("Extracted %d pages", len(doc.Pages))

	chunks := s.splitter.Split(doc)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, path)
	}
	logger.Info("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: expected %d embeddings, got %d", len(chunks), len(embeddings))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	logger.Debug("Embedded with %s (%d dimensions)", s.embedder.ModelName(), s.embedder.Dimensions())

	// Replace any previous index content
	if err := s.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset knowledge store: %w", err)
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}
	if err := s.store.SetMeta(ctx, driven.MetaEmbeddingModel, s.embedder.ModelName()); err != nil {
		return nil, fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.store.SetMeta(ctx, driven.MetaEmbeddingDimensions, strconv.Itoa(s.embedder.Dimensions())); err != nil {
		return nil, fmt.Errorf("save embedding dimensions: %w", err)
	}

	for i := range chunks {
		if err := s.index.Add(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
			return nil, fmt.Errorf("index chunk %d: %w", chunks[i].ID, err)
		}
	}
	logger.Info("Indexed %d chunks", s.index.Len())

	return &driving.IngestStats{
		DocumentID:     doc.ID,
		Pages:          len(doc.Pages),
		Chunks:         len(chunks),
		EmbeddingModel: s.embedder.ModelName(),
		Dimensions:     s.embedder.Dimensions(),
	}, nil
}

// RestoreIndex rebuilds an in-memory vector index from the persisted chunks.
// Returns domain.ErrIndexNotFound when the store holds no chunks, and
// domain.ErrIndexCorrupt when a stored embedding cannot be loaded.
func RestoreIndex(ctx context.Context, store driven.KnowledgeStore, index driven.VectorIndex) (int, error) {
	chunks, err := store.Chunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return 0, domain.ErrIndexNotFound
	}

	for i := range chunks {
		if err := index.Add(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
			return 0, fmt.Errorf("%w: chunk %d: %w", domain.ErrIndexCorrupt, chunks[i].ID, err)
		}
	}

	logger.Debug("Restored %d chunks into the vector index", len(chunks))
	return len(chunks), nil
}
