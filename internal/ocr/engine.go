//go:build tesseract

package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
)

// Ensure LocalEngine implements the port.
var _ driven.OCREngine = (*LocalEngine)(nil)

// LocalEngine runs optical recognition through Tesseract via gosseract.
// Requires the Tesseract libraries at build and run time.
type LocalEngine struct {
	languages []string
}

// NewLocalEngine creates a local engine recognising the given languages.
// Defaults to English plus simplified Chinese.
func NewLocalEngine(languages ...string) *LocalEngine {
	if len(languages) == 0 {
		languages = []string{"eng", "chi_sim"}
	}
	return &LocalEngine{languages: languages}
}

// Recognize returns the text recognised in the image at path.
func (e *LocalEngine) Recognize(_ context.Context, path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", err
	}
	if err := client.SetImage(path); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
