package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithChunkSize(500), WithOverlap(50))
		if c.chunkSize != 500 || c.overlap != 50 {
			t.Errorf("expected 500/50, got %d/%d", c.chunkSize, c.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize || c.overlap != DefaultChunkOverlap {
			t.Errorf("expected defaults, got %d/%d", c.chunkSize, c.overlap)
		}
	})
}

func TestSplit_EmptyDocument(t *testing.T) {
	c := New()
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{
		{Number: 1, Text: ""},
		{Number: 2, Text: "   \n\t  "},
	}}

	chunks := c.Split(doc)
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for whitespace-only pages, got %d", len(chunks))
	}
}

func TestSplit_SmallPage(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{
		{Number: 4, Text: "A short page."},
	}}

	chunks := c.Split(doc)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "A short page." {
		t.Errorf("small page should survive unsplit, got %q", chunks[0].Content)
	}
	if chunks[0].Page != 4 {
		t.Errorf("expected page 4, got %d", chunks[0].Page)
	}
}

func TestSplit_ChunkSizeRespected(t *testing.T) {
	c := New(WithChunkSize(80), WithOverlap(10))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{{Number: 1, Text: text}}}

	chunks := c.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if len(chunk.Content) > 80 {
			t.Errorf("chunk %d exceeds size limit: %d bytes", chunk.ID, len(chunk.Content))
		}
		if strings.TrimSpace(chunk.Content) == "" {
			t.Errorf("chunk %d is empty", chunk.ID)
		}
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	c := New(WithChunkSize(60), WithOverlap(0))
	text := "First paragraph here.\n\nSecond paragraph continues with more words than fit."
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{{Number: 1, Text: text}}}

	chunks := c.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected a split, got %d chunks", len(chunks))
	}
	// The first cut should land on the paragraph break, not mid-sentence.
	if !strings.HasSuffix(chunks[0].Content, "\n\n") {
		t.Errorf("expected cut at paragraph break, first chunk = %q", chunks[0].Content)
	}
}

func TestSplit_HardCutWithoutSeparators(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(0))
	text := strings.Repeat("x", 120)
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{{Number: 1, Text: text}}}

	chunks := c.Split(doc)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 hard-cut chunks, got %d", len(chunks))
	}
	total := 0
	for _, chunk := range chunks {
		total += len(chunk.Content)
	}
	if total != 120 {
		t.Errorf("hard cuts lost characters: got %d of 120", total)
	}
}

func TestSplit_IDsAreEmissionOrder(t *testing.T) {
	c := New(WithChunkSize(40), WithOverlap(5))
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{
		{Number: 1, Text: strings.Repeat("alpha beta gamma delta. ", 10)},
		{Number: 2, Text: strings.Repeat("epsilon zeta eta theta. ", 10)},
	}}

	chunks := c.Split(doc)
	for i, chunk := range chunks {
		if chunk.ID != i {
			t.Fatalf("chunk %d has id %d; ids must follow emission order", i, chunk.ID)
		}
	}

	// Page position restarts per page.
	sawSecondPage := false
	for _, chunk := range chunks {
		if chunk.Page == 2 && !sawSecondPage {
			sawSecondPage = true
			if chunk.Position != 0 {
				t.Errorf("first chunk of page 2 has position %d, want 0", chunk.Position)
			}
		}
	}
	if !sawSecondPage {
		t.Fatal("expected chunks from page 2")
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(WithChunkSize(90), WithOverlap(15))
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{
		{Number: 1, Text: strings.Repeat("Gradient descent minimises loss. One step at a time.\n", 8)},
	}}

	first := c.Split(doc)
	second := c.Split(doc)

	if len(first) != len(second) {
		t.Fatalf("runs disagree on chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Content != second[i].Content ||
			first[i].Page != second[i].Page || first[i].Position != second[i].Position {
			t.Errorf("chunk %d differs between identical runs", i)
		}
	}
}

func TestSplit_CoverageWithOverlapRemoved(t *testing.T) {
	overlap := 10
	c := New(WithChunkSize(70), WithOverlap(overlap))
	text := strings.Repeat("Regularisation trades variance for bias in a model. ", 12)
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{{Number: 1, Text: text}}}

	chunks := c.Split(doc)
	if len(chunks) < 3 {
		t.Fatalf("want several chunks for the coverage check, got %d", len(chunks))
	}

	// Dropping each chunk's leading overlap must reproduce the original
	// text exactly: no silent character loss.
	var b strings.Builder
	b.WriteString(chunks[0].Content)
	for _, chunk := range chunks[1:] {
		b.WriteString(chunk.Content[overlap:])
	}
	if b.String() != text {
		t.Errorf("reassembled text differs from original\nwant: %q\ngot:  %q", text, b.String())
	}
}

func TestSplit_MultiByteRunesSurviveHardCuts(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(0))
	text := strings.Repeat("日本語テキスト", 5)
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{{Number: 1, Text: text}}}

	for _, chunk := range c.Split(doc) {
		if !strings.Contains(text, chunk.Content) {
			t.Errorf("chunk %q is not a substring of the original; a rune was split", chunk.Content)
		}
	}
}

func TestSplit_MultiByteRunesSurviveOverlapStepBack(t *testing.T) {
	// Places a multi-byte rune so the overlap step-back from the first
	// cut lands inside it.
	c := New(WithChunkSize(100), WithOverlap(10))
	text := strings.Repeat("a", 85) + "’" + strings.Repeat("b", 7) + " " + strings.Repeat("c", 60)
	doc := &domain.Document{ID: "doc", Pages: []domain.Page{{Number: 1, Text: text}}}

	chunks := c.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("want at least two chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if !utf8.ValidString(chunk.Content) {
			t.Errorf("chunk %d is not valid UTF-8: %q", chunk.ID, chunk.Content)
		}
		if !strings.Contains(text, chunk.Content) {
			t.Errorf("chunk %d is not a substring of the original: %q", chunk.ID, chunk.Content)
		}
	}
}
