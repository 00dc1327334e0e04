package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driving"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func textService(idx *mockIndex, exts ...string) *IngestService {
	if len(exts) == 0 {
		exts = []string{".txt"}
	}
	finder := &fakeFinder{parsers: []driven.Parser{
		&fakeParser{exts: exts, kind: domain.FileTypeText},
	}}
	return NewIngestService(idx, finder, 0)
}

func TestIngestPath_IndexesSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.txt", "alpha content")
	writeTestFile(t, dir, "skip.bin", "binary")
	nested := writeTestFile(t, dir, "sub/c.txt", "nested content")

	idx := newMockIndex()
	svc := textService(idx)

	count, err := svc.IngestPath(context.Background(), dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, idx.has(a))
	assert.True(t, idx.has(nested))

	rec := idx.records[a]
	assert.Equal(t, "alpha content", rec.Content)
	assert.Equal(t, int64(len("alpha content")), rec.Size)
	assert.NotEmpty(t, rec.Hash)
	assert.Equal(t, ".txt", rec.Extension)
}

func TestIngestPath_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "top.txt", "top")
	writeTestFile(t, dir, "sub/deep.txt", "deep")

	idx := newMockIndex()
	count, err := textService(idx).IngestPath(context.Background(), dir, driving.IngestOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestPath_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "only.txt", "single")

	idx := newMockIndex()
	count, err := textService(idx).IngestPath(context.Background(), path, driving.IngestOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, idx.has(path))
}

func TestIngestPath_UnchangedFileSkipped(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "stable content")

	idx := newMockIndex()
	svc := textService(idx)
	ctx := context.Background()

	count, err := svc.IngestPath(ctx, dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = svc.IngestPath(ctx, dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestPath_ModifiedFileReindexed(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "version one")

	idx := newMockIndex()
	svc := textService(idx)
	ctx := context.Background()

	_, err := svc.IngestPath(ctx, dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("version two, now longer"), 0600))

	count, err := svc.IngestPath(ctx, dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "version two, now longer", idx.records[path].Content)
}

func TestIngestPath_ForceReindexesUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "stable")

	idx := newMockIndex()
	svc := textService(idx)
	ctx := context.Background()

	_, err := svc.IngestPath(ctx, dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)

	count, err := svc.IngestPath(ctx, dir, driving.IngestOptions{Recursive: true, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestPath_ProbeFailureReindexes(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "content")

	idx := newMockIndex()
	idx.failGet = errors.New("reader unavailable")

	count, err := textService(idx).IngestPath(context.Background(), dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestPath_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "alpha")
	md := writeTestFile(t, dir, "b.md", "bravo")

	idx := newMockIndex()
	svc := textService(idx, ".txt", ".md")

	count, err := svc.IngestPath(context.Background(), dir, driving.IngestOptions{
		Recursive:  true,
		Extensions: []string{"md"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, idx.has(md))
}

func TestIngestPath_SessionIDTiesLogLinesTogether(t *testing.T) {
	dir := t.TempDir()
	bad := writeTestFile(t, dir, "bad.txt", "content")

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})

	idx := newMockIndex()
	finder := &fakeFinder{parsers: []driven.Parser{
		&fakeParser{exts: []string{".txt"}, kind: domain.FileTypeText, failFor: "bad.txt", err: errors.New("torn file")},
	}}
	_, err := NewIngestService(idx, finder, 0).IngestPath(context.Background(), dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)

	out := buf.String()
	m := regexp.MustCompile(`ingest ([0-9a-f]{8}): starting`).FindStringSubmatch(out)
	require.NotNil(t, m, "run start line carries the session id")
	assert.Contains(t, out, "ingest "+m[1]+": skipping "+bad)
}

func TestIngestPath_SingleFileExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	md := writeTestFile(t, dir, "notes.md", "bravo")

	idx := newMockIndex()
	svc := textService(idx, ".txt", ".md")

	count, err := svc.IngestPath(context.Background(), md, driving.IngestOptions{
		Extensions: []string{".txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.False(t, idx.has(md))
}

func TestIngestPath_ParserErrorSkipsFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "bad.txt", "will fail")
	good := writeTestFile(t, dir, "good.txt", "will pass")

	finder := &fakeFinder{parsers: []driven.Parser{
		&fakeParser{exts: []string{".txt"}, kind: domain.FileTypeText, failFor: "bad.txt", err: errors.New("corrupt")},
	}}
	idx := newMockIndex()
	svc := NewIngestService(idx, finder, 0)

	count, err := svc.IngestPath(context.Background(), dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, idx.has(good))
}

func TestIngestPath_OversizedDocumentSkipped(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "big.docx", "this content is over the tiny limit")

	finder := &fakeFinder{parsers: []driven.Parser{
		&fakeParser{exts: []string{".docx"}, kind: domain.FileTypeDocument},
	}}
	idx := newMockIndex()
	svc := NewIngestService(idx, finder, 10)

	count, err := svc.IngestPath(context.Background(), dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestPath_OversizedTextStillIndexed(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "big.txt", "text files are exempt from the size ceiling")

	idx := newMockIndex()
	svc := NewIngestService(idx, &fakeFinder{parsers: []driven.Parser{
		&fakeParser{exts: []string{".txt"}, kind: domain.FileTypeText},
	}}, 10)

	count, err := svc.IngestPath(context.Background(), dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestPath_EmptyExtractionSkipped(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "empty.txt", "")

	idx := newMockIndex()
	count, err := textService(idx).IngestPath(context.Background(), dir, driving.IngestOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, idx.count())
}

func TestIngestPath_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "alpha")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := textService(newMockIndex()).IngestPath(ctx, dir, driving.IngestOptions{Recursive: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestPath_MissingRoot(t *testing.T) {
	_, err := textService(newMockIndex()).IngestPath(context.Background(), "/nonexistent/tree", driving.IngestOptions{})
	assert.Error(t, err)
}

func TestCommit_Delegates(t *testing.T) {
	idx := newMockIndex()
	require.NoError(t, textService(idx).Commit())
	assert.Equal(t, 1, idx.commits)
}
