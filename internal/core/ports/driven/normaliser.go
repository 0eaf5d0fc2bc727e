package driven

import (
	"context"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

// Normaliser converts a source file into a Document with ordered pages.
// Implementations are format-specific (PDF, plain text).
type Normaliser interface {
	// Normalise reads the file at path and produces a Document.
	// A readable file with no extractable text (for example an image-only
	// PDF) yields a Document with empty pages, not an error; emptiness is
	// judged by the ingestion pipeline after chunking.
	Normalise(ctx context.Context, path string) (*domain.Document, error)

	// Extensions returns the lower-case file extensions this normaliser
	// handles, including the leading dot.
	Extensions() []string
}
