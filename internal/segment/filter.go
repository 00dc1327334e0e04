package segment

import "strings"

// TermFilter transforms a term after segmentation. Returning false drops
// the term from the stream. Filtering is a separate, composable stage so
// normalisation never interleaves with chunk boundary logic.
type TermFilter func(Term) (Term, bool)

// Lowercase folds the term text to lower case.
func Lowercase(t Term) (Term, bool) {
	t.Word = strings.ToLower(t.Word)
	return t, true
}

// DropBlank removes terms that are empty or whitespace-only. Offsets of the
// remaining terms are unaffected.
func DropBlank(t Term) (Term, bool) {
	return t, strings.TrimSpace(t.Word) != ""
}

// Filtered wraps a token stream and applies filters in order.
type Filtered struct {
	src     TokenStream
	filters []TermFilter
}

// Ensure Filtered implements the stream interface.
var _ TokenStream = (*Filtered)(nil)

// NewFiltered creates a filtering stage over src.
func NewFiltered(src TokenStream, filters ...TermFilter) *Filtered {
	return &Filtered{src: src, filters: filters}
}

// Next returns the next term that passes all filters.
func (f *Filtered) Next() (Term, error) {
	for {
		term, err := f.src.Next()
		if err != nil {
			return Term{}, err
		}

		keep := true
		for _, filter := range f.filters {
			term, keep = filter(term)
			if !keep {
				break
			}
		}
		if keep {
			return term, nil
		}
	}
}
