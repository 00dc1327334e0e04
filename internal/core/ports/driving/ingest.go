package driving

import "context"

// IngestOptions controls a directory ingestion run.
type IngestOptions struct {
	// Recursive descends into subdirectories. When false only the direct
	// children of the starting directory are visited.
	Recursive bool

	// Force reindexes every file regardless of the change gate.
	Force bool

	// Extensions is an optional allow-list of file extensions (with leading
	// dot, case-insensitive). Nil means all extensions.
	Extensions []string
}

// Ingestor walks a directory tree and feeds changed files into the index.
type Ingestor interface {
	// IngestPath ingests the file or directory at path and returns the
	// number of documents successfully indexed. Per-file failures are
	// logged and skipped, never aborting the walk.
	IngestPath(ctx context.Context, path string, opts IngestOptions) (int, error)

	// Commit finalises all pending index writes for this session.
	Commit() error
}
