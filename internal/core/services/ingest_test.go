package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/viva-cli/internal/chunker"
	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
)

// ==================== Mocks ====================

type mockKnowledgeStore struct {
	doc       *domain.Document
	chunks    []domain.Chunk
	meta      map[string]string
	resets    int
	chunksErr error
}

func newMockKnowledgeStore() *mockKnowledgeStore {
	return &mockKnowledgeStore{meta: make(map[string]string)}
}

func (m *mockKnowledgeStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.doc = doc
	return nil
}

func (m *mockKnowledgeStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockKnowledgeStore) Document(_ context.Context) (*domain.Document, error) {
	if m.doc == nil {
		return nil, domain.ErrNotFound
	}
	return m.doc, nil
}

func (m *mockKnowledgeStore) Chunks(_ context.Context) ([]domain.Chunk, error) {
	if m.chunksErr != nil {
		return nil, m.chunksErr
	}
	return m.chunks, nil
}

func (m *mockKnowledgeStore) ChunkCount(_ context.Context) (int, error) {
	return len(m.chunks), nil
}

func (m *mockKnowledgeStore) GetMeta(_ context.Context, key string) (string, error) {
	v, ok := m.meta[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *mockKnowledgeStore) SetMeta(_ context.Context, key, value string) error {
	m.meta[key] = value
	return nil
}

func (m *mockKnowledgeStore) Reset(_ context.Context) error {
	m.resets++
	m.doc = nil
	m.chunks = nil
	m.meta = make(map[string]string)
	return nil
}

func (m *mockKnowledgeStore) Close() error { return nil }

// mockIndex records added vectors and serves canned search hits.
type mockIndex struct {
	vectors map[int][]float32
	hits    []driven.VectorHit
	addErr  error
}

func newMockIndex() *mockIndex {
	return &mockIndex{vectors: make(map[int][]float32)}
}

func (m *mockIndex) Add(_ context.Context, chunkID int, embedding []float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.vectors[chunkID] = embedding
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockIndex) Len() int     { return len(m.vectors) }
func (m *mockIndex) Close() error { return nil }

// mockEmbedder returns a fixed-dimension vector derived from input order.
type mockEmbedder struct {
	dims     int
	embedErr error
	batches  [][]string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.batches = append(m.batches, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, m.dims)
		vec[0] = float32(i + 1)
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return m.dims }
func (m *mockEmbedder) ModelName() string          { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

// mockNormaliser returns a fixed document regardless of path.
type mockNormaliser struct {
	doc *domain.Document
	err error
}

func (m *mockNormaliser) Normalise(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func (m *mockNormaliser) Extensions() []string { return []string{".txt"} }

// ==================== Tests ====================

func testDocument() *domain.Document {
	return &domain.Document{
		ID:    "doc-1",
		URI:   "/tmp/notes.txt",
		Title: "notes",
		Pages: []domain.Page{
			{Number: 1, Text: "Gradient descent is an iterative optimisation algorithm. It follows the negative gradient of the loss surface to find a local minimum."},
		},
	}
}

func newTestIngestService(store *mockKnowledgeStore, index *mockIndex, embedder *mockEmbedder, norm driven.Normaliser) *IngestService {
	svc := NewIngestService(store, index, embedder, chunker.New(chunker.WithChunkSize(60), chunker.WithOverlap(10)))
	svc.SetNormaliserFunc(func(string) (driven.Normaliser, error) { return norm, nil })
	return svc
}

func TestIngestService_Ingest(t *testing.T) {
	store := newMockKnowledgeStore()
	index := newMockIndex()
	embedder := &mockEmbedder{dims: 4}
	svc := newTestIngestService(store, index, embedder, &mockNormaliser{doc: testDocument()})

	stats, err := svc.Ingest(context.Background(), "/tmp/notes.txt")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", stats.DocumentID)
	assert.Equal(t, 1, stats.Pages)
	assert.Greater(t, stats.Chunks, 1)
	assert.Equal(t, "mock-embed", stats.EmbeddingModel)
	assert.Equal(t, 4, stats.Dimensions)

	// Everything the retriever needs later is persisted.
	require.NotNil(t, store.doc)
	assert.Len(t, store.chunks, stats.Chunks)
	assert.Equal(t, "mock-embed", store.meta[driven.MetaEmbeddingModel])
	assert.Equal(t, "4", store.meta[driven.MetaEmbeddingDimensions])
	assert.Equal(t, stats.Chunks, index.Len())

	for _, chunk := range store.chunks {
		assert.Len(t, chunk.Embedding, 4, "chunk %d", chunk.ID)
	}
}

func TestIngestService_Ingest_ReplacesExistingIndex(t *testing.T) {
	store := newMockKnowledgeStore()
	store.chunks = []domain.Chunk{{ID: 99, Content: "stale"}}
	index := newMockIndex()
	svc := newTestIngestService(store, index, &mockEmbedder{dims: 4}, &mockNormaliser{doc: testDocument()})

	_, err := svc.Ingest(context.Background(), "/tmp/notes.txt")

	require.NoError(t, err)
	assert.Equal(t, 1, store.resets)
	for _, chunk := range store.chunks {
		assert.NotEqual(t, "stale", chunk.Content)
	}
}

func TestIngestService_Ingest_EmptyDocument(t *testing.T) {
	store := newMockKnowledgeStore()
	doc := &domain.Document{ID: "doc-1", Pages: []domain.Page{{Number: 1, Text: "   "}}}
	svc := newTestIngestService(store, newMockIndex(), &mockEmbedder{dims: 4}, &mockNormaliser{doc: doc})

	_, err := svc.Ingest(context.Background(), "/tmp/blank.txt")

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Equal(t, 0, store.resets, "nothing is touched when the source is empty")
}

func TestIngestService_Ingest_UnsupportedFormat(t *testing.T) {
	svc := NewIngestService(newMockKnowledgeStore(), newMockIndex(), &mockEmbedder{dims: 4}, chunker.New())

	_, err := svc.Ingest(context.Background(), "/tmp/slides.pptx")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_Ingest_NormaliseError(t *testing.T) {
	svc := newTestIngestService(newMockKnowledgeStore(), newMockIndex(), &mockEmbedder{dims: 4},
		&mockNormaliser{err: errors.New("truncated file")})

	_, err := svc.Ingest(context.Background(), "/tmp/broken.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated file")
}

func TestIngestService_Ingest_EmbedError(t *testing.T) {
	store := newMockKnowledgeStore()
	embedder := &mockEmbedder{dims: 4, embedErr: errors.New("service unavailable")}
	svc := newTestIngestService(store, newMockIndex(), embedder, &mockNormaliser{doc: testDocument()})

	_, err := svc.Ingest(context.Background(), "/tmp/notes.txt")

	require.Error(t, err)
	assert.Equal(t, 0, store.resets, "existing index survives an embedding failure")
}

// ==================== RestoreIndex ====================

func TestRestoreIndex(t *testing.T) {
	store := newMockKnowledgeStore()
	store.chunks = []domain.Chunk{
		{ID: 0, Content: "a", Embedding: []float32{1, 0}},
		{ID: 1, Content: "b", Embedding: []float32{0, 1}},
	}
	index := newMockIndex()

	n, err := RestoreIndex(context.Background(), store, index)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, index.Len())
	assert.Equal(t, []float32{0, 1}, index.vectors[1])
}

func TestRestoreIndex_Empty(t *testing.T) {
	_, err := RestoreIndex(context.Background(), newMockKnowledgeStore(), newMockIndex())

	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestRestoreIndex_CorruptEmbedding(t *testing.T) {
	store := newMockKnowledgeStore()
	store.chunks = []domain.Chunk{{ID: 0, Embedding: []float32{1, 0}}}
	index := newMockIndex()
	index.addErr = fmt.Errorf("dimension mismatch")

	_, err := RestoreIndex(context.Background(), store, index)

	assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
}
