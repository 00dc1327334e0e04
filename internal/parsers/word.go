package parsers

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// WordParser handles OOXML word-processing documents.
type WordParser struct {
	opts Options
}

func NewWord(opts Options) *WordParser { return &WordParser{opts: opts} }

func (p *WordParser) Supports(path string) bool {
	return supportsExt(path, ".docx") && p.opts.documentAllowed(path)
}

func (p *WordParser) Kind() domain.FileType { return domain.FileTypeDocument }

func (p *WordParser) ExtractText(ctx context.Context, path string) (domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, err
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return domain.Extraction{}, err
	}
	defer archive.Close()

	text := collapseWhitespace(extractWordText(&archive.Reader))

	if p.opts.EnableOCR {
		images := extractZipImages(&archive.Reader, "word/media/")
		text = appendOCRSection(text, recognizeImages(ctx, p.opts.Recognizer, path, images))
	}

	return domain.Extraction{
		Text:      text,
		FileType:  domain.FileTypeDocument,
		Extension: fileExtension(path),
	}, nil
}

// extractWordText pulls the paragraph text out of word/document.xml.
func extractWordText(reader *zip.Reader) string {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return ""
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return ""
		}
		return parseWordXML(content)
	}
	return ""
}

// wordDocumentXML mirrors the paragraph/run/text nesting of document.xml.
type wordDocumentXML struct {
	Body struct {
		Paragraphs []wordParagraph `xml:"p"`
	} `xml:"body"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []wordText `xml:"t"`
}

type wordText struct {
	Content string `xml:",chardata"`
}

func parseWordXML(content []byte) string {
	var doc wordDocumentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, t := range run.Text {
				result.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(result.String())
}
