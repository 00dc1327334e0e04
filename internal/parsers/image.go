package parsers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/ocr"
)

// ImageParser indexes standalone image files through recognition. When
// recognition fails or is disabled the image is still indexed under a
// small descriptor so it remains findable by name.
type ImageParser struct {
	opts Options
}

func NewImage(opts Options) *ImageParser { return &ImageParser{opts: opts} }

func (p *ImageParser) Supports(path string) bool {
	exts := p.opts.ImageExtensions
	if len(exts) == 0 {
		exts = DefaultImageExtensions
	}
	return supportsExt(path, exts...)
}

func (p *ImageParser) Kind() domain.FileType { return domain.FileTypeImage }

func (p *ImageParser) ExtractText(ctx context.Context, path string) (domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.Extraction{}, err
	}

	extraction := domain.Extraction{
		FileType:  domain.FileTypeImage,
		Extension: fileExtension(path),
	}

	if !p.opts.EnableOCR || p.opts.Recognizer == nil {
		extraction.Text = ocr.Descriptor(filepath.Base(path), info.Size())
		return extraction, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Extraction{}, err
	}

	text, err := p.opts.Recognizer.Recognize(ctx, data, filepath.Base(path), path)
	if err != nil {
		logger.Warn("ocr failed for %s, indexing descriptor only: %v", path, err)
		extraction.Text = ocr.Descriptor(filepath.Base(path), info.Size())
		return extraction, nil
	}

	extraction.Text = collapseWhitespace(text)
	if extraction.Text == "" {
		extraction.Text = ocr.Descriptor(filepath.Base(path), info.Size())
	}
	return extraction, nil
}
