package domain

import "time"

// Document represents a reference document loaded into the system.
// It is the canonical representation after normalisation and is
// immutable once loaded.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Pages is the ordered page content of the document.
	Pages []Page

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Page is a single page of raw text within a document.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the raw page text.
	Text string
}

// Chunk represents a retrievable unit within a document.
// Pages are split into overlapping chunks for indexing.
type Chunk struct {
	// ID is the chunk's position in emission order. It doubles as the
	// key into the vector index, so emission order must be stable.
	ID int

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Page is the page number the chunk was cut from.
	Page int

	// Position is the ordinal position within the page.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}

// RetrievedChunk is a chunk returned from similarity search with its score.
type RetrievedChunk struct {
	Chunk Chunk

	// Similarity is the cosine similarity to the query (higher is closer).
	Similarity float64
}
