// Package segment provides memory-bounded, boundary-continuous word
// tokenization for CJK-aware indexing.
//
// Text is consumed from an io.Reader in bounded chunks. Each chunk is
// segmented as a whole, which gives the segmenter enough context for CJK
// word boundaries, while the tokenizer itself never holds more than one
// chunk of raw text in memory. Term offsets are absolute byte offsets
// within the original stream and stay continuous across chunk boundaries.
package segment

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

// DefaultChunkSize is the chunk buffer capacity in bytes.
const DefaultChunkSize = 100000

// readBufferSize is the size of a single sub-read while filling a chunk.
const readBufferSize = 8192

// Term is one segmented word with absolute offsets in the input stream.
type Term struct {
	// Word is the segmented word text.
	Word string

	// Tag is the grammatical tag assigned by the segmenter, if any.
	Tag string

	// Start and End are byte offsets within the whole original stream.
	Start int
	End   int

	// PositionIncrement is the token position delta, always 1 here.
	PositionIncrement int
}

// TokenStream is a lazy sequence of terms. Next returns io.EOF when the
// underlying input is exhausted.
type TokenStream interface {
	Next() (Term, error)
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithChunkSize sets the chunk buffer capacity in bytes.
func WithChunkSize(size int) Option {
	return func(t *Tokenizer) {
		if size > 0 {
			t.chunkSize = size
		}
	}
}

// Tokenizer produces a lazy, finite, restartable sequence of terms from an
// arbitrarily large character stream.
//
// Chunks are segmented independently: a word genuinely straddling two
// chunks may be segmented inconsistently at the boundary. The chunk cap is
// large enough that this is rare, and downstream consumers only see the
// continuous offset sequence.
type Tokenizer struct {
	seg       driven.Segmenter
	r         io.Reader
	chunkSize int
	readBuf   []byte

	// carry holds the bytes of an incomplete trailing UTF-8 sequence from
	// the previous fill, so segmentation never sees a torn rune.
	carry []byte

	chunk     string
	words     []driven.SegmentedWord
	wordIdx   int
	cursor    int // next search position within chunk, bytes
	chunkBase int // absolute byte offset of chunk start
	nextBase  int
	eof       bool
}

// Ensure Tokenizer implements the stream interface.
var _ TokenStream = (*Tokenizer)(nil)

// NewTokenizer creates a tokenizer reading from r and segmenting with seg.
func NewTokenizer(r io.Reader, seg driven.Segmenter, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		seg:       seg,
		r:         r,
		chunkSize: DefaultChunkSize,
		readBuf:   make([]byte, readBufferSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset restarts the tokenizer over a new input stream.
func (t *Tokenizer) Reset(r io.Reader) {
	t.r = r
	t.carry = t.carry[:0]
	t.chunk = ""
	t.words = nil
	t.wordIdx = 0
	t.cursor = 0
	t.chunkBase = 0
	t.nextBase = 0
	t.eof = false
}

// Next returns the next term, or io.EOF when the input is exhausted.
func (t *Tokenizer) Next() (Term, error) {
	for {
		for t.wordIdx < len(t.words) {
			w := t.words[t.wordIdx]
			t.wordIdx++
			if w.Text == "" {
				continue
			}

			// Locate the word in the chunk so offsets stay exact even
			// when the segmenter drops characters between words.
			start := t.cursor
			if idx := strings.Index(t.chunk[t.cursor:], w.Text); idx >= 0 {
				start = t.cursor + idx
			}
			end := start + len(w.Text)
			// A segmenter may hand back words that are not substrings of
			// the chunk; keep the cursor inside the chunk either way.
			if end > len(t.chunk) {
				end = len(t.chunk)
			}
			t.cursor = end

			return Term{
				Word:              w.Text,
				Tag:               w.Tag,
				Start:             t.chunkBase + start,
				End:               t.chunkBase + end,
				PositionIncrement: 1,
			}, nil
		}

		if err := t.readNextChunk(); err != nil {
			return Term{}, err
		}
	}
}

// readNextChunk fills the next chunk and segments it. Returns io.EOF when a
// pull yields an empty chunk. A segmentation failure yields zero terms for
// this chunk and the tokenizer continues with the next one.
func (t *Tokenizer) readNextChunk() error {
	buf := append([]byte(nil), t.carry...)
	t.carry = t.carry[:0]

	for len(buf) < t.chunkSize && !t.eof {
		n, err := t.r.Read(t.readBuf)
		if n > 0 {
			buf = append(buf, t.readBuf[:n]...)
		}
		if err == io.EOF {
			t.eof = true
			break
		}
		if err != nil {
			return err
		}
	}

	if !t.eof {
		cut := completeBoundary(buf)
		t.carry = append(t.carry, buf[cut:]...)
		buf = buf[:cut]
	}

	t.chunkBase = t.nextBase
	t.nextBase += len(buf)
	t.chunk = string(buf)
	t.cursor = 0
	t.wordIdx = 0
	t.words = nil

	if len(buf) == 0 {
		return io.EOF
	}

	words, err := t.seg.Words(t.chunk)
	if err != nil {
		logger.Warn("segmentation failed for chunk of %d bytes: %v", len(buf), err)
		return nil
	}
	t.words = words
	return nil
}

// completeBoundary returns the largest prefix length of b that ends on a
// complete UTF-8 sequence.
func completeBoundary(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return i
			}
			break
		}
	}
	return len(b)
}
