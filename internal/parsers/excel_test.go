package parsers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

const sharedStringsXMLDoc = `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <si><t>Quarterly revenue</t></si>
  <si><r><t>rich </t></r><r><t>text</t></r></si>
</sst>`

const sheetXMLDoc = `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row>
      <c t="s"><v>0</v></c>
      <c><v>1250</v></c>
    </row>
    <row>
      <c t="s"><v>1</v></c>
      <c t="inlineStr"><is><t>inline note</t></is></c>
    </row>
  </sheetData>
</worksheet>`

func TestExcelParser_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figures.xlsx")
	writeZip(t, path, map[string]string{
		"xl/sharedStrings.xml":    sharedStringsXMLDoc,
		"xl/worksheets/sheet1.xml": sheetXMLDoc,
	})

	parser := NewExcel(Options{})
	require.True(t, parser.Supports(path))

	extraction, err := parser.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly revenue 1250\nrich text inline note", extraction.Text)
	assert.Equal(t, domain.FileTypeDocument, extraction.FileType)
}

func TestExcelParser_NoSharedStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.xlsx")
	writeZip(t, path, map[string]string{
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row><c><v>42</v></c></row></sheetData></worksheet>`,
	})

	extraction, err := NewExcel(Options{}).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "42", extraction.Text)
}

func TestExcelParser_SharedIndexOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.xlsx")
	writeZip(t, path, map[string]string{
		"xl/sharedStrings.xml":    sharedStringsXMLDoc,
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row><c t="s"><v>99</v></c><c><v>ok</v></c></row></sheetData></worksheet>`,
	})

	extraction, err := NewExcel(Options{}).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "ok", extraction.Text)
}
