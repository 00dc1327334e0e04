// Package domain defines the core business entities for MasterAllDocuments.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: The indexed representation of one file, keyed by path
//   - Fingerprint: The (size, mtime, hash) triple identifying content state
//   - Extraction: The outcome of running a parser over a file
//   - Query / SearchResult: The search surface towards the index
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
