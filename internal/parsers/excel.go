package parsers

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// ExcelParser handles OOXML spreadsheets. Cell values are joined with
// spaces within a row and rows with newlines, so tabular content stays
// searchable as plain text.
type ExcelParser struct {
	opts Options
}

func NewExcel(opts Options) *ExcelParser { return &ExcelParser{opts: opts} }

func (p *ExcelParser) Supports(path string) bool {
	return supportsExt(path, ".xlsx") && p.opts.documentAllowed(path)
}

func (p *ExcelParser) Kind() domain.FileType { return domain.FileTypeDocument }

func (p *ExcelParser) ExtractText(ctx context.Context, path string) (domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, err
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return domain.Extraction{}, err
	}
	defer archive.Close()

	shared := parseSharedStrings(&archive.Reader)

	var sheets []string
	for _, f := range archive.Reader.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheets = append(sheets, f.Name)
		}
	}
	sort.Strings(sheets)

	var result strings.Builder
	for _, name := range sheets {
		text := parseWorksheet(&archive.Reader, name, shared)
		if text == "" {
			continue
		}
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(text)
	}

	return domain.Extraction{
		Text:      strings.TrimSpace(result.String()),
		FileType:  domain.FileTypeDocument,
		Extension: fileExtension(path),
	}, nil
}

// sharedStringsXML mirrors xl/sharedStrings.xml. A string item is either
// plain (<t>) or a sequence of rich-text runs (<r><t>).
type sharedStringsXML struct {
	Items []sharedStringItem `xml:"si"`
}

type sharedStringItem struct {
	Text string `xml:"t"`
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

func (s sharedStringItem) value() string {
	if s.Text != "" {
		return s.Text
	}
	var b strings.Builder
	for _, r := range s.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func parseSharedStrings(reader *zip.Reader) []string {
	content := readZipEntry(reader, "xl/sharedStrings.xml")
	if content == nil {
		return nil
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(content, &sst); err != nil {
		return nil
	}

	values := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		values[i] = item.value()
	}
	return values
}

// worksheetXML mirrors the row/cell nesting of a worksheet part.
type worksheetXML struct {
	SheetData struct {
		Rows []struct {
			Cells []worksheetCell `xml:"c"`
		} `xml:"row"`
	} `xml:"sheetData"`
}

type worksheetCell struct {
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline struct {
		Text string `xml:"t"`
	} `xml:"is"`
}

func (c worksheetCell) text(shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(c.Value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return c.Inline.Text
	default:
		return c.Value
	}
}

func parseWorksheet(reader *zip.Reader, name string, shared []string) string {
	content := readZipEntry(reader, name)
	if content == nil {
		return ""
	}

	var sheet worksheetXML
	if err := xml.Unmarshal(content, &sheet); err != nil {
		return ""
	}

	var rows []string
	for _, row := range sheet.SheetData.Rows {
		var cells []string
		for _, cell := range row.Cells {
			if v := strings.TrimSpace(cell.text(shared)); v != "" {
				cells = append(cells, v)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " "))
		}
	}
	return strings.Join(rows, "\n")
}

// readZipEntry returns the content of the named archive entry, or nil.
func readZipEntry(reader *zip.Reader, name string) []byte {
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil
		}
		return content
	}
	return nil
}
