package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

func TestPdfParser_Supports(t *testing.T) {
	parser := NewPdf(Options{})
	assert.True(t, parser.Supports("paper.pdf"))
	assert.True(t, parser.Supports("PAPER.PDF"))
	assert.False(t, parser.Supports("paper.docx"))
}

func TestPdfParser_CorruptFileYieldsEmptyText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", "not a pdf at all")

	extraction, err := NewPdf(Options{}).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", extraction.Text)
	assert.Equal(t, domain.FileTypeDocument, extraction.FileType)
	assert.Equal(t, ".pdf", extraction.Extension)
}
