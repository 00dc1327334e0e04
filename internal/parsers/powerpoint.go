package parsers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// PowerPointParser handles OOXML presentations. Each slide part is walked
// for its drawing-text elements, which also covers text buried inside
// grouped shapes since those nest under the same element name.
type PowerPointParser struct {
	opts Options
}

func NewPowerPoint(opts Options) *PowerPointParser { return &PowerPointParser{opts: opts} }

func (p *PowerPointParser) Supports(path string) bool {
	return supportsExt(path, ".pptx") && p.opts.documentAllowed(path)
}

func (p *PowerPointParser) Kind() domain.FileType { return domain.FileTypeDocument }

func (p *PowerPointParser) ExtractText(ctx context.Context, path string) (domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, err
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return domain.Extraction{}, err
	}
	defer archive.Close()

	var slides []string
	for _, f := range archive.Reader.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f.Name)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i]) < slideNumber(slides[j])
	})

	var result strings.Builder
	for _, name := range slides {
		text := collapseWhitespace(extractSlideText(readZipEntry(&archive.Reader, name)))
		if text == "" {
			continue
		}
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(text)
	}
	text := result.String()

	if p.opts.EnableOCR {
		images := extractZipImages(&archive.Reader, "ppt/media/")
		text = appendOCRSection(text, recognizeImages(ctx, p.opts.Recognizer, path, images))
	}

	return domain.Extraction{
		Text:      text,
		FileType:  domain.FileTypeDocument,
		Extension: fileExtension(path),
	}, nil
}

// slideNumber orders slide parts by their numeric suffix so slide10 sorts
// after slide2.
func slideNumber(name string) int {
	digits := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// extractSlideText walks the slide XML collecting the character data of
// every drawing-text element, regardless of shape nesting depth.
func extractSlideText(content []byte) string {
	if content == nil {
		return ""
	}

	decoder := xml.NewDecoder(bytes.NewReader(content))
	var result strings.Builder
	inText := 0
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText++
			}
		case xml.EndElement:
			if t.Name.Local == "t" && inText > 0 {
				inText--
				result.WriteString(" ")
			}
		case xml.CharData:
			if inText > 0 {
				result.Write(t)
			}
		}
	}
	return strings.TrimSpace(result.String())
}
