package driven

import (
	"context"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// Parser extracts a text representation from one family of file formats.
// Parsers are consulted in a fixed order; the first whose Supports returns
// true handles the file.
type Parser interface {
	// Supports reports whether this parser handles the given path.
	// Matching is by extension, case-insensitive.
	Supports(path string) bool

	// ExtractText produces the text representation of the file.
	// An empty Extraction.Text means "nothing to index", not an error.
	ExtractText(ctx context.Context, path string) (domain.Extraction, error)

	// Kind returns the file type this parser produces.
	Kind() domain.FileType
}
