// Package pdf extracts page text from PDF documents.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".pdf"}
}

// Normalise reads the PDF at path and extracts one Page per document page.
// Pages without extractable text (scanned images) come back empty; the
// ingestion pipeline decides whether the document as a whole is usable.
func (n *Normaliser) Normalise(_ context.Context, path string) (*domain.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]domain.Page, 0, total)

	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{Number: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single malformed page should not abort the whole
			// extraction; it contributes no text.
			text = ""
		}

		pages = append(pages, domain.Page{Number: i, Text: text})
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
