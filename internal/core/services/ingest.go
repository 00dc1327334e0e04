// Package services contains the core orchestration logic between the
// driving surfaces and the driven adapters.
package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driving"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/fingerprint"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

// defaultMaxFileBytes bounds how large a non-text file may be before
// extraction is attempted.
const defaultMaxFileBytes = 50 << 20

// ParserFinder selects a parser for a path, or nil when none applies.
type ParserFinder interface {
	Find(path string) driven.Parser
}

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService walks directories, decides per file whether reindexing is
// needed, extracts text through the parser set and feeds the index.
type IngestService struct {
	index        driven.Index
	finder       ParserFinder
	maxFileBytes int64
}

// NewIngestService creates an ingest service. maxFileBytes caps the size
// of non-text files handed to extraction; zero or negative selects the
// default of 50 MiB.
func NewIngestService(index driven.Index, finder ParserFinder, maxFileBytes int64) *IngestService {
	if maxFileBytes <= 0 {
		maxFileBytes = defaultMaxFileBytes
	}
	return &IngestService{
		index:        index,
		finder:       finder,
		maxFileBytes: maxFileBytes,
	}
}

// IngestPath ingests a file or directory tree. Per-file failures are
// logged and skipped; only cancellation and a failed root abort the run.
func (s *IngestService) IngestPath(ctx context.Context, path string, opts driving.IngestOptions) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", abs, err)
	}

	session := uuid.New().String()[:8]
	logger.Info("ingest %s: starting at %s", session, abs)

	indexed := 0
	if !info.IsDir() {
		if !extensionAllowed(abs, opts.Extensions) {
			logger.Info("ingest %s: %s excluded by extension filter", session, abs)
			return 0, nil
		}
		ok, err := s.ingestFile(ctx, session, abs, opts.Force)
		if err != nil {
			if ctx.Err() != nil {
				return indexed, ctx.Err()
			}
			return 0, err
		}
		if ok {
			indexed++
		}
		logger.Info("ingest %s: %d document(s) indexed", session, indexed)
		return indexed, nil
	}

	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("ingest %s: skipping %s: %v", session, p, walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if !opts.Recursive && p != abs {
				return fs.SkipDir
			}
			return nil
		}

		if !extensionAllowed(p, opts.Extensions) {
			return nil
		}

		ok, err := s.ingestFile(ctx, session, p, opts.Force)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("ingest %s: skipping %s: %v", session, p, err)
			return nil
		}
		if ok {
			indexed++
		}
		return nil
	})
	if err != nil {
		return indexed, err
	}

	logger.Info("ingest %s: %d document(s) indexed", session, indexed)
	return indexed, nil
}

// ingestFile runs one file through the gate, extraction and upsert.
// It returns true when the file was (re)indexed. The session id ties the
// per-file log lines back to the run that produced them.
func (s *IngestService) ingestFile(ctx context.Context, session, path string, force bool) (bool, error) {
	parser := s.finder.Find(path)
	if parser == nil {
		logger.Debug("ingest %s: no parser for %s", session, path)
		return false, nil
	}

	fp, err := fingerprint.Compute(path)
	if err != nil {
		return false, fmt.Errorf("fingerprinting: %w", err)
	}

	if !force && !s.shouldReindex(ctx, path, fp) {
		logger.Debug("ingest %s: unchanged, skipping %s", session, path)
		return false, nil
	}

	// Text files stream cheaply through extraction; heavier formats are
	// bounded before any unpacking or recognition happens.
	if parser.Kind() != domain.FileTypeText && fp.Size > s.maxFileBytes {
		return false, fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, fp.Size)
	}

	extraction, err := parser.ExtractText(ctx, path)
	if err != nil {
		return false, fmt.Errorf("extracting: %w", err)
	}
	if extraction.Empty() {
		logger.Debug("ingest %s: no indexable text in %s", session, path)
		return false, nil
	}

	rec := &domain.Record{
		Path:           path,
		FileType:       extraction.FileType,
		Extension:      extraction.Extension,
		Size:           fp.Size,
		ModifiedMillis: fp.ModifiedMillis,
		Hash:           fp.Hash,
		Content:        extraction.Text,
	}
	if err := s.index.Upsert(ctx, rec); err != nil {
		return false, fmt.Errorf("indexing: %w", err)
	}
	return true, nil
}

// shouldReindex is the change gate: a file is reindexed unless the stored
// record exists and its size, modification time and hash all match. Any
// probe failure resolves to reindexing.
func (s *IngestService) shouldReindex(ctx context.Context, path string, fp domain.Fingerprint) bool {
	existing, err := s.index.GetByPath(ctx, path)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Debug("change probe failed for %s, reindexing: %v", path, err)
		}
		return true
	}
	return !fp.Matches(existing)
}

// Commit finalises the pending index writes.
func (s *IngestService) Commit() error {
	return s.index.Commit()
}

func extensionAllowed(path string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, a := range allowed {
		if !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}
