package driving

import "context"

// IngestStats summarises a completed ingestion run.
type IngestStats struct {
	// DocumentID is the id assigned to the ingested document.
	DocumentID string

	// Pages is the number of pages extracted from the source.
	Pages int

	// Chunks is the number of chunks indexed.
	Chunks int

	// EmbeddingModel is the model the chunks were embedded with.
	EmbeddingModel string

	// Dimensions is the embedding vector size.
	Dimensions int
}

// IngestService builds the knowledge index from a source document.
type IngestService interface {
	// Ingest extracts, chunks, embeds and persists the document at path.
	// Any existing index content is replaced. Fails with
	// domain.ErrEmptyDocument when the source yields no usable text.
	Ingest(ctx context.Context, path string) (*IngestStats, error)
}
