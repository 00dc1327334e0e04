package segment

import (
	"fmt"
	"sync"

	"github.com/go-ego/gse"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
)

// Ensure GseSegmenter implements the port.
var _ driven.Segmenter = (*GseSegmenter)(nil)

// GseSegmenter is a dictionary-based CJK word segmenter backed by gse.
// Latin text falls out as whitespace-delimited words; Chinese text is
// segmented against the embedded dictionary with HMM for unknown words.
type GseSegmenter struct {
	seg gse.Segmenter
}

// NewGse creates a segmenter with the default embedded dictionary.
// Dictionary loading is expensive; prefer Default for shared use.
func NewGse() (*GseSegmenter, error) {
	g := &GseSegmenter{}
	if err := g.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("loading segmenter dictionary: %w", err)
	}
	return g, nil
}

// Words segments text into words with part-of-speech tags.
func (g *GseSegmenter) Words(text string) ([]driven.SegmentedWord, error) {
	if text == "" {
		return nil, nil
	}

	segs := g.seg.Pos(text, true)
	words := make([]driven.SegmentedWord, 0, len(segs))
	for _, s := range segs {
		words = append(words, driven.SegmentedWord{
			Text: s.Text,
			Tag:  s.Pos,
		})
	}
	return words, nil
}

var (
	defaultOnce sync.Once
	defaultSeg  *GseSegmenter
	defaultErr  error
)

// Default returns the process-wide shared segmenter, loading the
// dictionary on first use.
func Default() (*GseSegmenter, error) {
	defaultOnce.Do(func() {
		defaultSeg, defaultErr = NewGse()
	})
	return defaultSeg, defaultErr
}
