package parsers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

func TestImageParser_DisabledIndexesDescriptor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "photo.png", "0123456789")

	extraction, err := NewImage(Options{}).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "image file: photo.png, size: 10 bytes", extraction.Text)
	assert.Equal(t, domain.FileTypeImage, extraction.FileType)
	assert.Equal(t, ".png", extraction.Extension)
}

func TestImageParser_RecognisedText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.jpg", "pixels")

	rec := &fakeRecognizer{text: "  street  sign "}
	extraction, err := NewImage(Options{EnableOCR: true, Recognizer: rec}).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "street sign", extraction.Text)
	assert.Equal(t, []string{"scan.jpg"}, rec.calls)
}

func TestImageParser_FailureFallsBackToDescriptor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.jpg", "pixels")

	rec := &fakeRecognizer{err: errors.New("service down")}
	extraction, err := NewImage(Options{EnableOCR: true, Recognizer: rec}).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "image file: scan.jpg, size: 6 bytes", extraction.Text)
}

func TestImageParser_EmptyRecognitionFallsBack(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blank.png", "pixels")

	rec := &fakeRecognizer{text: "   "}
	extraction, err := NewImage(Options{EnableOCR: true, Recognizer: rec}).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "image file: blank.png, size: 6 bytes", extraction.Text)
}

func TestImageParser_MissingFile(t *testing.T) {
	_, err := NewImage(Options{}).ExtractText(context.Background(), "/nonexistent/a.png")
	assert.Error(t, err)
}
