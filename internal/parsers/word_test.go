package parsers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

const wordDocXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestWordParser_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	writeZip(t, path, map[string]string{
		"word/document.xml": wordDocXML,
	})

	parser := NewWord(Options{})
	require.True(t, parser.Supports(path))

	extraction, err := parser.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph Second paragraph", extraction.Text)
	assert.Equal(t, domain.FileTypeDocument, extraction.FileType)
	assert.Equal(t, ".docx", extraction.Extension)
}

func TestWordParser_EmbeddedImageOCR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	writeZip(t, path, map[string]string{
		"word/document.xml":    wordDocXML,
		"word/media/image1.png": "fakepixels",
		"word/media/thumb.bin":  "notanimage",
	})

	rec := &fakeRecognizer{text: "label on image"}
	parser := NewWord(Options{EnableOCR: true, Recognizer: rec})

	extraction, err := parser.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, extraction.Text, "First paragraph")
	assert.Contains(t, extraction.Text, ocrMarker)
	assert.Contains(t, extraction.Text, "label on image")
	assert.Equal(t, []string{"image1.png"}, rec.calls)
}

func TestWordParser_NotAZip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.docx", "plain bytes")

	_, err := NewWord(Options{}).ExtractText(context.Background(), path)
	assert.Error(t, err)
}
