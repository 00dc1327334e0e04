package domain

// QueryKind selects how user input is turned into an index query.
type QueryKind int

const (
	// QueryKeyword matches terms against content and path with OR semantics.
	QueryKeyword QueryKind = iota

	// QueryPhrase requires the terms to appear adjacent, in order.
	QueryPhrase

	// QueryExtension is an exact-match filter on the extension field.
	QueryExtension
)

// Query is the constructed search request handed to the index adapter.
type Query struct {
	Kind QueryKind

	// Text is the user input: terms, a phrase, or an extension.
	Text string

	// FileType optionally restricts results to one file type.
	// Empty means all types. Ignored for QueryExtension.
	FileType string
}

// SearchResult is one ranked hit from the index.
type SearchResult struct {
	// Path is the stored file path of the matching record.
	Path string

	// Score is the relevance score assigned by the index.
	Score float64

	// FileType and Extension are the stored classification fields.
	FileType  string
	Extension string
}

// IndexStats summarises the state of the index.
type IndexStats struct {
	// TotalDocuments is the number of live records.
	TotalDocuments uint64

	// DiskBytes is the on-disk size of the index directory.
	DiskBytes int64
}
