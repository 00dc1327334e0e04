package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driving"
)

// defaultTopK is used when the caller does not specify a result limit.
const defaultTopK = 10

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// SearchService turns user input into index queries.
type SearchService struct {
	index driven.Index
}

func NewSearchService(index driven.Index) *SearchService {
	return &SearchService{index: index}
}

// Search runs a keyword search over content and path.
func (s *SearchService) Search(ctx context.Context, query string, topK int, fileType string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	return s.index.Search(ctx, domain.Query{
		Kind:     domain.QueryKeyword,
		Text:     query,
		FileType: strings.TrimSpace(fileType),
	}, normaliseTopK(topK))
}

// SearchPhrase runs an exact-adjacency phrase search over content.
func (s *SearchService) SearchPhrase(ctx context.Context, phrase string, topK int) ([]domain.SearchResult, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, fmt.Errorf("%w: empty phrase", domain.ErrInvalidInput)
	}
	return s.index.Search(ctx, domain.Query{
		Kind: domain.QueryPhrase,
		Text: phrase,
	}, normaliseTopK(topK))
}

// SearchByExtension returns records with the exact extension.
func (s *SearchService) SearchByExtension(ctx context.Context, extension string, topK int) ([]domain.SearchResult, error) {
	extension = strings.TrimSpace(extension)
	if extension == "" || extension == "." {
		return nil, fmt.Errorf("%w: empty extension", domain.ErrInvalidInput)
	}
	return s.index.Search(ctx, domain.Query{
		Kind: domain.QueryExtension,
		Text: extension,
	}, normaliseTopK(topK))
}

// Stats reports index statistics.
func (s *SearchService) Stats(ctx context.Context) (domain.IndexStats, error) {
	return s.index.Stats(ctx)
}

func normaliseTopK(topK int) int {
	if topK <= 0 {
		return defaultTopK
	}
	return topK
}
