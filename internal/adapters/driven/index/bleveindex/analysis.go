package bleveindex

import (
	"bytes"
	"errors"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/segment"
)

const (
	// TokenizerName identifies the chunked CJK-aware tokenizer in the
	// analysis registry.
	TokenizerName = "segmented_cjk"

	// AnalyzerName identifies the document content analyzer.
	AnalyzerName = "document_text"
)

func init() {
	registry.RegisterTokenizer(TokenizerName, tokenizerConstructor)
}

// segmentTokenizer adapts the chunked segmenting tokenizer to the bleve
// analysis interface. The same analyzer runs at index and at query time,
// so mixed CJK and Latin queries match the way content was indexed.
type segmentTokenizer struct {
	seg driven.Segmenter
}

func tokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.Tokenizer, error) {
	seg, err := segment.Default()
	if err != nil {
		return nil, err
	}
	return &segmentTokenizer{seg: seg}, nil
}

func (t *segmentTokenizer) Tokenize(input []byte) analysis.TokenStream {
	var tokens analysis.TokenStream

	stream := segment.NewFiltered(
		segment.NewTokenizer(bytes.NewReader(input), t.seg),
		segment.DropBlank,
	)

	position := 0
	for {
		term, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		position += term.PositionIncrement
		tokens = append(tokens, &analysis.Token{
			Term:     []byte(term.Word),
			Start:    term.Start,
			End:      term.End,
			Position: position,
			Type:     tokenType(term.Word),
		})
	}
	return tokens
}

func tokenType(word string) analysis.TokenType {
	r, _ := utf8.DecodeRuneInString(word)
	if unicode.Is(unicode.Han, r) {
		return analysis.Ideographic
	}
	return analysis.AlphaNumeric
}

// buildMapping constructs the index mapping: content is analysed with the
// segmenting analyzer but not stored, identity fields are stored keyword
// terms, and the fingerprint numerics are stored for change probing.
func buildMapping() mapping.IndexMapping {
	im := mapping.NewIndexMapping()

	if err := im.AddCustomAnalyzer(AnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     TokenizerName,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		// Registration only fails on a misconfigured analyzer definition,
		// which is a programming error.
		panic(err)
	}

	content := mapping.NewTextFieldMapping()
	content.Analyzer = AnalyzerName
	content.Store = false
	content.IncludeInAll = false

	keywordField := func() *mapping.FieldMapping {
		fm := mapping.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		fm.IncludeInAll = false
		return fm
	}

	numericField := func() *mapping.FieldMapping {
		fm := mapping.NewNumericFieldMapping()
		fm.Store = true
		fm.IncludeInAll = false
		return fm
	}

	doc := mapping.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldContent, content)
	doc.AddFieldMappingsAt(fieldPath, keywordField())
	doc.AddFieldMappingsAt(fieldFileType, keywordField())
	doc.AddFieldMappingsAt(fieldExtension, keywordField())
	doc.AddFieldMappingsAt(fieldHash, keywordField())
	doc.AddFieldMappingsAt(fieldSize, numericField())
	doc.AddFieldMappingsAt(fieldModified, numericField())

	im.DefaultMapping = doc
	im.DefaultAnalyzer = AnalyzerName
	return im
}
