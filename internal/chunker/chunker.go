// Package chunker splits document pages into overlapping fixed-size chunks
// along semantic boundaries.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// separators is the boundary priority list. The splitter prefers the
// highest-priority separator that still yields a chunk within the size
// limit: paragraph break, line break, sentence-ending period, whitespace.
var separators = []string{"\n\n", "\n", ".", " "}

// Chunker splits document pages into overlapping chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split cuts every page of the document into chunks and assigns chunk ids
// in emission order. The sequence is fully determined by the document and
// the chunker parameters; ordering matters because the id doubles as the
// vector index key. Whitespace-only segments are never emitted.
func (c *Chunker) Split(doc *domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	id := 0

	for _, page := range doc.Pages {
		position := 0
		for _, content := range c.splitText(page.Text) {
			chunks = append(chunks, domain.Chunk{
				ID:         id,
				DocumentID: doc.ID,
				Content:    content,
				Page:       page.Number,
				Position:   position,
			})
			id++
			position++
		}
	}

	return chunks
}

// splitText cuts a single text into segments of at most chunkSize bytes,
// with adjacent segments sharing overlap bytes of context.
func (c *Chunker) splitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	var segments []string
	start := 0

	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			if seg := text[start:]; strings.TrimSpace(seg) != "" {
				segments = append(segments, seg)
			}
			break
		}

		cut := c.findCut(text, start, end)
		if seg := text[start:cut]; strings.TrimSpace(seg) != "" {
			segments = append(segments, seg)
		}

		// Step back by the overlap so adjacent segments share trailing
		// and leading context, but always make forward progress. The
		// step-back counts bytes, so advance to the next rune start
		// rather than beginning a segment mid-rune.
		next := cut - c.overlap
		for next < cut && !utf8.RuneStart(text[next]) {
			next++
		}
		if next <= start {
			next = cut
		}
		start = next
	}

	return segments
}

// findCut returns the end offset of the segment starting at start. It
// prefers the highest-priority separator found inside the window, taking
// the last occurrence so the segment stays as large as possible; the
// separator itself remains with the preceding segment. With no separator
// in range it falls back to a hard cut at the window edge, aligned to a
// rune boundary.
func (c *Chunker) findCut(text string, start, end int) int {
	window := text[start:end]

	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx > 0 {
			return start + idx + len(sep)
		}
	}

	// Hard cut: never split a multi-byte rune.
	for end > start+1 && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
