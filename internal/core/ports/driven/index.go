package driven

import (
	"context"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// Index is the external full-text index collaborator.
//
// The writer side follows a single-writer discipline: one OpenWriter per
// build session, any number of Upsert/Delete calls, then Commit. The reader
// side is an independently refreshable snapshot; refreshing never blocks
// readers already holding an older snapshot.
type Index interface {
	// OpenWriter opens the index for writing, creating it when create is
	// true and the index does not exist yet.
	OpenWriter(create bool) error

	// Upsert replaces the record stored under rec.Path, or adds it.
	// Returns domain.ErrWriterNotOpen before OpenWriter.
	Upsert(ctx context.Context, rec *domain.Record) error

	// Delete removes the record stored under path, if any.
	Delete(ctx context.Context, path string) error

	// Commit finalises all upserts and deletes since the writer was opened
	// or last committed.
	Commit() error

	// OpenReader opens the index for reading.
	// Returns domain.ErrIndexNotFound when the index does not exist.
	OpenReader() error

	// RefreshReader advances the reader to the latest committed state.
	RefreshReader() error

	// GetByPath fetches the stored fields of the record keyed by path.
	// Returns domain.ErrNotFound when no such record exists and
	// domain.ErrReaderNotOpen before OpenReader. Content is never stored
	// and is always empty on the returned record.
	GetByPath(ctx context.Context, path string) (*domain.Record, error)

	// Search executes a constructed query and returns up to topK ranked hits.
	Search(ctx context.Context, q domain.Query, topK int) ([]domain.SearchResult, error)

	// Stats reports index-level statistics.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Exists reports whether the index exists on disk.
	Exists() bool

	// Close releases the writer, the reader and the directory lock.
	Close() error
}
