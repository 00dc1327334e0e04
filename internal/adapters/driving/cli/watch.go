package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driving"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
)

var watchRecursive bool

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Keep the index in sync with a directory",
	Long: `Performs an initial build of the given path and then re-ingests
files as they change, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchRecursive, "recursive", "r", true, "descend into subdirectories")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := index.OpenWriter(true); err != nil {
		return fmt.Errorf("opening index for writing: %w", err)
	}
	defer index.Close()

	if err := index.OpenReader(); err != nil {
		logger.Debug("reader unavailable, all files will be reindexed: %v", err)
	}

	opts := driving.IngestOptions{Recursive: watchRecursive}

	count, err := ingestor.IngestPath(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	if err := ingestor.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	cmd.Printf("Indexed %d document(s), watching for changes...\n", count)

	return watcher.Watch(cmd.Context(), args[0], opts)
}
