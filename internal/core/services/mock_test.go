package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
)

// mockIndex is an in-memory driven.Index recording interactions.
type mockIndex struct {
	mu      sync.Mutex
	records map[string]*domain.Record
	commits int

	failGet    error
	failUpsert error

	queries []domain.Query
	topKs   []int
	results []domain.SearchResult
	stats   domain.IndexStats
}

func newMockIndex() *mockIndex {
	return &mockIndex{records: make(map[string]*domain.Record)}
}

func (m *mockIndex) OpenWriter(bool) error { return nil }
func (m *mockIndex) OpenReader() error     { return nil }
func (m *mockIndex) RefreshReader() error  { return nil }
func (m *mockIndex) Exists() bool          { return true }
func (m *mockIndex) Close() error          { return nil }

func (m *mockIndex) Upsert(_ context.Context, rec *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return m.failUpsert
	}
	stored := *rec
	m.records[rec.Path] = &stored
	return nil
}

func (m *mockIndex) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, path)
	return nil
}

func (m *mockIndex) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits++
	return nil
}

func (m *mockIndex) GetByPath(_ context.Context, path string) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	rec, ok := m.records[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *rec
	copied.Content = ""
	return &copied, nil
}

func (m *mockIndex) Search(_ context.Context, q domain.Query, topK int) ([]domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	m.topKs = append(m.topKs, topK)
	return m.results, nil
}

func (m *mockIndex) Stats(context.Context) (domain.IndexStats, error) {
	return m.stats, nil
}

func (m *mockIndex) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *mockIndex) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[path]
	return ok
}

// fakeParser reads files verbatim and reports a fixed kind.
type fakeParser struct {
	exts    []string
	kind    domain.FileType
	failFor string
	err     error
}

func (p *fakeParser) Supports(path string) bool {
	for _, ext := range p.exts {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return true
		}
	}
	return false
}

func (p *fakeParser) Kind() domain.FileType { return p.kind }

func (p *fakeParser) ExtractText(_ context.Context, path string) (domain.Extraction, error) {
	if p.err != nil && (p.failFor == "" || filepath.Base(path) == p.failFor) {
		return domain.Extraction{}, p.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Extraction{}, err
	}
	return domain.Extraction{
		Text:      string(data),
		FileType:  p.kind,
		Extension: strings.ToLower(filepath.Ext(path)),
	}, nil
}

// fakeFinder dispatches to the first supporting parser.
type fakeFinder struct {
	parsers []driven.Parser
}

func (f *fakeFinder) Find(path string) driven.Parser {
	for _, p := range f.parsers {
		if p.Supports(path) {
			return p
		}
	}
	return nil
}
