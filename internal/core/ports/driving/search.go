package driving

import (
	"context"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// Searcher answers queries against the index.
type Searcher interface {
	// Search runs a keyword search over content and path, optionally
	// filtered by file type.
	Search(ctx context.Context, query string, topK int, fileType string) ([]domain.SearchResult, error)

	// SearchPhrase runs an exact-adjacency phrase search over content.
	SearchPhrase(ctx context.Context, phrase string, topK int) ([]domain.SearchResult, error)

	// SearchByExtension returns records with the exact extension.
	SearchByExtension(ctx context.Context, extension string, topK int) ([]domain.SearchResult, error)

	// Stats reports index statistics.
	Stats(ctx context.Context) (domain.IndexStats, error)
}
