package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driving"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

const (
	// debounceWindow batches rapid successive writes to the same file
	// before it is re-ingested.
	debounceWindow = 500 * time.Millisecond

	flushInterval = 250 * time.Millisecond
)

// Ensure WatchService implements the interface.
var _ driving.Watcher = (*WatchService)(nil)

// WatchService re-ingests files as they change on disk and removes
// deleted files from the index.
type WatchService struct {
	ingestor driving.Ingestor
	index    driven.Index
}

func NewWatchService(ingestor driving.Ingestor, index driven.Index) *WatchService {
	return &WatchService{ingestor: ingestor, index: index}
}

// Watch blocks, feeding filesystem events into the ingestor until ctx is
// cancelled. New directories are watched as they appear when opts is
// recursive.
func (s *WatchService) Watch(ctx context.Context, root string, opts driving.IngestOptions) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := s.addWatches(watcher, abs, opts.Recursive); err != nil {
		return err
	}
	logger.Info("watching %s", abs)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			s.flush(context.Background(), pending, time.Time{}, opts)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, watcher, event, opts, pending)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			s.flush(ctx, pending, now, opts)
		}
	}
}

func (s *WatchService) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event, opts driving.IngestOptions, pending map[string]time.Time) {
	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if err := s.index.Delete(ctx, event.Name); err != nil {
			logger.Warn("cannot remove %s from index: %v", event.Name, err)
			return
		}
		if err := s.index.Commit(); err != nil {
			logger.Warn("cannot commit removal of %s: %v", event.Name, err)
		}

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if opts.Recursive && event.Op.Has(fsnotify.Create) {
				if err := s.addWatches(watcher, event.Name, true); err != nil {
					logger.Warn("cannot watch %s: %v", event.Name, err)
				}
			}
			return
		}
		pending[event.Name] = time.Now()
	}
}

// flush ingests every pending file whose debounce window has passed.
// A zero now flushes everything.
func (s *WatchService) flush(ctx context.Context, pending map[string]time.Time, now time.Time, opts driving.IngestOptions) {
	committed := false
	for path, seen := range pending {
		if !now.IsZero() && now.Sub(seen) < debounceWindow {
			continue
		}
		delete(pending, path)

		fileOpts := driving.IngestOptions{Force: opts.Force, Extensions: opts.Extensions}
		if _, err := s.ingestor.IngestPath(ctx, path, fileOpts); err != nil {
			logger.Warn("cannot re-ingest %s: %v", path, err)
			continue
		}
		committed = true
	}
	if committed {
		if err := s.ingestor.Commit(); err != nil {
			logger.Warn("cannot commit watch batch: %v", err)
		}
	}
}

func (s *WatchService) addWatches(watcher *fsnotify.Watcher, root string, recursive bool) error {
	if !recursive {
		return watcher.Add(root)
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
