package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

var (
	searchTopK      int
	searchFileType  string
	searchPhrase    bool
	searchExtension bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index",
	Long: `Searches indexed documents. By default terms match content and file
paths. With --phrase the terms must appear adjacent, in order. With
--by-extension the query is treated as a file extension filter.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "limit", "k", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchFileType, "type", "t", "", "restrict to a file type (text, document, image)")
	searchCmd.Flags().BoolVarP(&searchPhrase, "phrase", "p", false, "exact phrase search")
	searchCmd.Flags().BoolVarP(&searchExtension, "by-extension", "e", false, "search by file extension")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchPhrase && searchExtension {
		return fmt.Errorf("%w: --phrase and --by-extension are mutually exclusive", domain.ErrInvalidInput)
	}

	if err := index.OpenReader(); err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer index.Close()

	ctx := cmd.Context()

	var results []domain.SearchResult
	var err error
	switch {
	case searchPhrase:
		results, err = searcher.SearchPhrase(ctx, args[0], searchTopK)
	case searchExtension:
		results, err = searcher.SearchByExtension(ctx, args[0], searchTopK)
	default:
		results, err = searcher.Search(ctx, args[0], searchTopK, searchFileType)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(cmd, results)
	return nil
}

func printResults(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	for i, r := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Path, r.Score)
		if r.FileType != "" {
			cmd.Printf("      type: %s  ext: %s\n", r.FileType, r.Extension)
		}
	}
}
