package domain

// FileType classifies an indexed file by the kind of parser that produced it.
type FileType string

const (
	// FileTypeText covers plain text and source code files.
	FileTypeText FileType = "text"

	// FileTypeDocument covers office documents and PDFs.
	FileTypeDocument FileType = "document"

	// FileTypeImage covers image files indexed through OCR.
	FileTypeImage FileType = "image"
)

// Record is the unit stored in the search index, keyed by Path.
// Re-ingesting a path replaces the previous record (upsert), never duplicates.
type Record struct {
	// Path is the absolute file path and the unique key. Stored, not analysed.
	Path string

	// FileType is the parser classification. Stored.
	FileType FileType

	// Extension is the lower-cased file extension including the dot. Stored.
	Extension string

	// Size is the file size in bytes at ingestion time. Stored.
	Size int64

	// ModifiedMillis is the file modification time in Unix milliseconds. Stored.
	ModifiedMillis int64

	// Hash is the SHA-256 hex digest of the file content. Stored.
	Hash string

	// Content is the extracted text. Analysed, not stored.
	Content string
}

// Extraction is the outcome of running a parser over a file.
// Empty Text means "nothing to index", which is not an error.
type Extraction struct {
	Text      string
	FileType  FileType
	Extension string
}

// Empty reports whether the extraction produced no indexable text.
func (e Extraction) Empty() bool {
	return e.Text == ""
}
