// Package bleveindex implements the search index port on bleve. One
// on-disk index holds the extracted documents; document identity is the
// absolute file path, so re-adding a path replaces its previous entry.
//
// Writes go through a batch that is applied on Commit. A file lock next
// to the index directory enforces the single-writer rule across
// processes; readers do not take the lock.
package bleveindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/gofrs/flock"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

const (
	fieldContent   = "content"
	fieldPath      = "path"
	fieldFileType  = "file_type"
	fieldExtension = "extension"
	fieldHash      = "hash"
	fieldSize      = "size"
	fieldModified  = "modified_ms"

	// flushThreshold bounds batch memory before an implicit flush.
	flushThreshold = 100
)

// Ensure Store implements the index port.
var _ driven.Index = (*Store)(nil)

// Store is a bleve-backed index rooted at a directory.
type Store struct {
	dir string

	mu         sync.Mutex
	idx        bleve.Index
	batch      *bleve.Batch
	flk        *flock.Flock
	writerOpen bool
	readerOpen bool
}

// NewStore creates a store over the index directory. Nothing is opened
// until OpenWriter or OpenReader is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the index directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether an index is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, "index_meta.json"))
	return err == nil
}

// OpenWriter acquires the writer lock and opens the index for updates,
// creating it when create is true and it does not exist yet.
func (s *Store) OpenWriter(create bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writerOpen {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.dir), 0700); err != nil {
		return fmt.Errorf("creating index parent directory: %w", err)
	}

	flk := flock.New(s.dir + ".lock")
	locked, err := flk.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring writer lock: %w", err)
	}
	if !locked {
		return domain.ErrIndexLocked
	}

	if err := s.ensureOpen(create); err != nil {
		flk.Unlock()
		return err
	}

	s.flk = flk
	s.batch = s.idx.NewBatch()
	s.writerOpen = true
	return nil
}

// OpenReader opens the index for searching. The index must exist.
func (s *Store) OpenReader() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readerOpen {
		return nil
	}
	if err := s.ensureOpen(false); err != nil {
		return err
	}
	s.readerOpen = true
	return nil
}

// RefreshReader re-checks that the reader still has a live handle.
// Committed batches are visible to searches on the shared handle without
// reopening, so this only guards state.
func (s *Store) RefreshReader() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.readerOpen || s.idx == nil {
		return domain.ErrReaderNotOpen
	}
	return nil
}

// ensureOpen opens or creates the underlying bleve index. Callers hold mu.
func (s *Store) ensureOpen(create bool) error {
	if s.idx != nil {
		return nil
	}

	if s.Exists() {
		idx, err := bleve.Open(s.dir)
		if err != nil {
			return fmt.Errorf("opening index at %s: %w", s.dir, err)
		}
		s.idx = idx
		return nil
	}

	if !create {
		return domain.ErrIndexNotFound
	}

	if err := os.MkdirAll(filepath.Dir(s.dir), 0700); err != nil {
		return fmt.Errorf("creating index parent directory: %w", err)
	}
	idx, err := bleve.New(s.dir, buildMapping())
	if err != nil {
		return fmt.Errorf("creating index at %s: %w", s.dir, err)
	}
	logger.Info("created new index at %s", s.dir)
	s.idx = idx
	return nil
}

// Upsert stages a record for indexing. A record with the same path
// replaces the previous entry when the batch is committed.
func (s *Store) Upsert(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.Path == "" {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.writerOpen {
		return domain.ErrWriterNotOpen
	}

	doc := map[string]interface{}{
		fieldContent:   rec.Content,
		fieldPath:      rec.Path,
		fieldFileType:  string(rec.FileType),
		fieldExtension: strings.ToLower(rec.Extension),
		fieldHash:      rec.Hash,
		fieldSize:      rec.Size,
		fieldModified:  rec.ModifiedMillis,
	}
	if err := s.batch.Index(rec.Path, doc); err != nil {
		return fmt.Errorf("staging %s: %w", rec.Path, err)
	}
	return s.maybeFlush()
}

// Delete stages removal of the record with the given path.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.writerOpen {
		return domain.ErrWriterNotOpen
	}
	s.batch.Delete(path)
	return s.maybeFlush()
}

// maybeFlush applies the batch once it grows past the threshold.
// Callers hold mu.
func (s *Store) maybeFlush() error {
	if s.batch.Size() < flushThreshold {
		return nil
	}
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if s.batch.Size() == 0 {
		return nil
	}
	if err := s.idx.Batch(s.batch); err != nil {
		return fmt.Errorf("applying batch: %w", err)
	}
	s.batch.Reset()
	return nil
}

// Commit applies all staged changes.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.writerOpen {
		return domain.ErrWriterNotOpen
	}
	return s.flushLocked()
}

// GetByPath returns the stored record for an exact path. Content is not
// stored in the index and is left empty.
func (s *Store) GetByPath(ctx context.Context, path string) (*domain.Record, error) {
	s.mu.Lock()
	idx, open := s.idx, s.readerOpen
	s.mu.Unlock()

	if !open {
		return nil, domain.ErrReaderNotOpen
	}

	q := bleve.NewTermQuery(path)
	q.SetField(fieldPath)

	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = []string{fieldPath, fieldFileType, fieldExtension, fieldHash, fieldSize, fieldModified}

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", path, err)
	}
	if len(res.Hits) == 0 {
		return nil, domain.ErrNotFound
	}

	hit := res.Hits[0]
	return &domain.Record{
		Path:           hit.ID,
		FileType:       domain.FileType(fieldString(hit.Fields, fieldFileType)),
		Extension:      fieldString(hit.Fields, fieldExtension),
		Hash:           fieldString(hit.Fields, fieldHash),
		Size:           fieldInt64(hit.Fields, fieldSize),
		ModifiedMillis: fieldInt64(hit.Fields, fieldModified),
	}, nil
}

// Search runs a query and returns up to topK results ordered by score.
func (s *Store) Search(ctx context.Context, q domain.Query, topK int) ([]domain.SearchResult, error) {
	s.mu.Lock()
	idx, open := s.idx, s.readerOpen
	s.mu.Unlock()

	if !open {
		return nil, domain.ErrReaderNotOpen
	}
	if topK <= 0 {
		return nil, nil
	}

	bq, err := buildQuery(q)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(bq, topK, 0, false)
	req.Fields = []string{fieldFileType, fieldExtension}

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, domain.SearchResult{
			Path:      hit.ID,
			Score:     hit.Score,
			FileType:  fieldString(hit.Fields, fieldFileType),
			Extension: fieldString(hit.Fields, fieldExtension),
		})
	}
	return results, nil
}

// Stats returns document count and on-disk size of the index.
func (s *Store) Stats(ctx context.Context) (domain.IndexStats, error) {
	s.mu.Lock()
	idx, open := s.idx, s.readerOpen
	s.mu.Unlock()

	if !open {
		return domain.IndexStats{}, domain.ErrReaderNotOpen
	}
	if err := ctx.Err(); err != nil {
		return domain.IndexStats{}, err
	}

	count, err := idx.DocCount()
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("counting documents: %w", err)
	}

	var diskBytes int64
	err = filepath.WalkDir(s.dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		diskBytes += info.Size()
		return nil
	})
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("measuring index size: %w", err)
	}

	return domain.IndexStats{TotalDocuments: count, DiskBytes: diskBytes}, nil
}

// Close applies nothing that was not committed, releases the writer lock
// and closes the index handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.idx != nil {
		if err := s.idx.Close(); err != nil {
			errs = append(errs, err)
		}
		s.idx = nil
	}
	if s.flk != nil {
		if err := s.flk.Unlock(); err != nil {
			errs = append(errs, err)
		}
		s.flk = nil
	}
	s.batch = nil
	s.writerOpen = false
	s.readerOpen = false
	return errors.Join(errs...)
}

// buildQuery maps a domain query onto bleve's query tree.
func buildQuery(q domain.Query) (query.Query, error) {
	switch q.Kind {
	case domain.QueryKeyword:
		mq := bleve.NewMatchQuery(q.Text)
		mq.SetField(fieldContent)

		// Paths are single keyword terms, so substring matching on the
		// path needs a regexp rather than an analysed match. The query
		// text is quoted so * and ? in a search stay literal.
		wq := bleve.NewRegexpQuery(".*" + regexp.QuoteMeta(q.Text) + ".*")
		wq.SetField(fieldPath)

		var built query.Query = bleve.NewDisjunctionQuery(mq, wq)
		if q.FileType != "" {
			tq := bleve.NewTermQuery(q.FileType)
			tq.SetField(fieldFileType)
			built = bleve.NewConjunctionQuery(built, tq)
		}
		return built, nil

	case domain.QueryPhrase:
		pq := bleve.NewMatchPhraseQuery(q.Text)
		pq.SetField(fieldContent)
		return pq, nil

	case domain.QueryExtension:
		ext := strings.ToLower(strings.TrimSpace(q.Text))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		tq := bleve.NewTermQuery(ext)
		tq.SetField(fieldExtension)
		return tq, nil

	default:
		return nil, fmt.Errorf("%w: unknown query kind %d", domain.ErrInvalidInput, q.Kind)
	}
}

func fieldString(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

func fieldInt64(fields map[string]interface{}, name string) int64 {
	if v, ok := fields[name].(float64); ok {
		return int64(v)
	}
	return 0
}
