package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist in the index.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWriterNotOpen indicates a write was attempted before OpenWriter.
	// This is a programmer error and fails fast.
	ErrWriterNotOpen = errors.New("index writer not open")

	// ErrReaderNotOpen indicates a read was attempted before OpenReader.
	// This is a programmer error and fails fast.
	ErrReaderNotOpen = errors.New("index reader not open")

	// ErrIndexNotFound indicates the index directory does not exist.
	ErrIndexNotFound = errors.New("index does not exist")

	// ErrIndexLocked indicates another writer owns the index directory.
	ErrIndexLocked = errors.New("index is locked by another writer")

	// ErrOCRDisabled indicates optical recognition is switched off in
	// configuration. Callers downgrade this to a per-image skip.
	ErrOCRDisabled = errors.New("ocr not enabled")

	// ErrOCRUnavailable indicates no local inference engine is compiled in
	// and no remote service is configured.
	ErrOCRUnavailable = errors.New("ocr engine unavailable")

	// ErrFileTooLarge indicates a file exceeded the configured size ceiling
	// and was skipped before extraction.
	ErrFileTooLarge = errors.New("file exceeds size limit")
)
