// Package plaintext handles plain text and markdown documents.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// pageBreak separates pages in plain text sources. Form feed is the
// conventional page delimiter; a file without any becomes one page.
const pageBreak = "\f"

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".md", ".text"}
}

// Normalise reads the file at path into a Document, splitting on form
// feeds to recover page boundaries.
func (n *Normaliser) Normalise(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	parts := strings.Split(string(data), pageBreak)
	pages := make([]domain.Page, len(parts))
	for i, text := range parts {
		pages[i] = domain.Page{Number: i + 1, Text: text}
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		URI:       path,
		Title:     titleFromPath(path),
		Pages:     pages,
		CreatedAt: time.Now(),
	}, nil
}

// titleFromPath derives a human-readable title from the file name.
func titleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
