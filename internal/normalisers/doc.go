// Package normalisers converts source files into documents with ordered
// pages. Each supported format has its own sub-package implementing the
// driven.Normaliser port; ForPath picks one by file extension.
package normalisers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/viva-cli/internal/normalisers/pdf"
	"github.com/custodia-labs/viva-cli/internal/normalisers/plaintext"
)

// ForPath returns the normaliser responsible for the given file, selected
// by extension.
func ForPath(path string) (driven.Normaliser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	for _, n := range []driven.Normaliser{pdf.New(), plaintext.New()} {
		for _, supported := range n.Extensions() {
			if ext == supported {
				return n, nil
			}
		}
	}

	return nil, fmt.Errorf("unsupported source format %q", ext)
}
