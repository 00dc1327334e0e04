package parsers

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

// PdfParser extracts native text from PDF files and, when recognition is
// enabled, runs the document's embedded images through it as well. Damaged
// or image-only files yield their recognisable parts instead of failing
// the whole document.
type PdfParser struct {
	opts Options
}

func NewPdf(opts Options) *PdfParser { return &PdfParser{opts: opts} }

func (p *PdfParser) Supports(path string) bool {
	return supportsExt(path, ".pdf") && p.opts.documentAllowed(path)
}

func (p *PdfParser) Kind() domain.FileType { return domain.FileTypeDocument }

func (p *PdfParser) ExtractText(ctx context.Context, path string) (domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, err
	}

	text := collapseWhitespace(extractPdfText(path))

	if p.opts.EnableOCR {
		images := extractPdfImages(path)
		text = appendOCRSection(text, recognizeImages(ctx, p.opts.Recognizer, path, images))
	}

	return domain.Extraction{
		Text:      text,
		FileType:  domain.FileTypeDocument,
		Extension: fileExtension(path),
	}, nil
}

// extractPdfText returns the plain text of a PDF, or "" when the text
// layer cannot be read.
func extractPdfText(path string) string {
	f, reader, err := pdf.Open(path)
	if err != nil {
		logger.Debug("cannot open pdf %s: %v", path, err)
		return ""
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		logger.Debug("cannot read pdf text layer of %s: %v", path, err)
		return ""
	}

	content, err := io.ReadAll(plain)
	if err != nil {
		return ""
	}
	return string(content)
}

// extractPdfImages pulls the embedded images out of a PDF into memory.
func extractPdfImages(path string) []embeddedImage {
	tmpDir, err := os.MkdirTemp("", "masterdocs_pdf_")
	if err != nil {
		logger.Warn("cannot create temp dir for pdf images: %v", err)
		return nil
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractImagesFile(path, tmpDir, nil, nil); err != nil {
		logger.Debug("no extractable images in %s: %v", path, err)
		return nil
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil
	}

	var images []embeddedImage
	for _, entry := range entries {
		if entry.IsDir() || !supportsExt(entry.Name(), DefaultImageExtensions...) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		if err != nil || len(data) == 0 {
			continue
		}
		images = append(images, embeddedImage{name: entry.Name(), data: data})
	}
	if len(images) > 0 {
		logger.Debug("extracted %d image(s) from %s", len(images), path)
	}
	return images
}
