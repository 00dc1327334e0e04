package driven

// SegmentedWord is one word produced by segmentation, with its optional
// grammatical tag.
type SegmentedWord struct {
	Text string
	Tag  string
}

// Segmenter splits continuous text into words. CJK text has no whitespace
// word boundaries, so segmentation needs the whole chunk as context rather
// than a token-by-token stream.
type Segmenter interface {
	// Words segments text into words in order of appearance.
	Words(text string) ([]SegmentedWord, error)
}
