package parsers

import (
	"context"
	"os"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// DefaultTextExtensions are the plain-text formats read verbatim.
var DefaultTextExtensions = []string{
	".txt", ".md", ".markdown", ".csv", ".log", ".json", ".xml",
	".yaml", ".yml", ".toml", ".ini", ".conf", ".properties",
}

// TextParser reads plain-text files as-is.
type TextParser struct {
	extensions []string
}

func NewText(opts Options) *TextParser {
	exts := opts.TextExtensions
	if len(exts) == 0 {
		exts = DefaultTextExtensions
	}
	return &TextParser{extensions: exts}
}

func (p *TextParser) Supports(path string) bool {
	return supportsExt(path, p.extensions...)
}

func (p *TextParser) Kind() domain.FileType { return domain.FileTypeText }

func (p *TextParser) ExtractText(ctx context.Context, path string) (domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Extraction{}, err
	}
	return domain.Extraction{
		Text:      string(data),
		FileType:  domain.FileTypeText,
		Extension: fileExtension(path),
	}, nil
}
