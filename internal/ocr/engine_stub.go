//go:build !tesseract

package ocr

import (
	"context"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
)

// Ensure LocalEngine implements the port.
var _ driven.OCREngine = (*LocalEngine)(nil)

// LocalEngine runs optical recognition through Tesseract.
// This is a stub for builds without the tesseract tag; recognition
// degrades to the basic image descriptor.
type LocalEngine struct{}

// NewLocalEngine creates a local engine stub.
func NewLocalEngine(_ ...string) *LocalEngine {
	return &LocalEngine{}
}

// Recognize always reports that no engine is available.
func (e *LocalEngine) Recognize(_ context.Context, _ string) (string, error) {
	return "", domain.ErrOCRUnavailable
}
