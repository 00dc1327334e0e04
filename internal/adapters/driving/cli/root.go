// Package cli is the command line surface. Commands share a set of
// package-level services wired from configuration before any command
// runs.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/CloudyDay-y/MasterAllDocuments/internal/adapters/driven/config/file"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/adapters/driven/index/bleveindex"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driving"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/services"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/logger"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/ocr"
	"github.com/CloudyDay-y/MasterAllDocuments/internal/parsers"
)

var (
	version = "dev"

	verbose   bool
	configDir string
	indexDir  string

	config   driven.ConfigStore
	index    driven.Index
	ingestor driving.Ingestor
	searcher driving.Searcher
	watcher  driving.Watcher
)

var rootCmd = &cobra.Command{
	Use:   "masterdocs",
	Short: "Index and search the text of local documents",
	Long: `masterdocs extracts text from local files (plain text, office
documents, PDFs and images) and maintains a full-text index over them.
Supports mixed CJK and Latin content.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.masterdocs)")
	rootCmd.PersistentFlags().StringVarP(&indexDir, "index", "i", "", "index directory (overrides configuration)")
}

// initServices wires adapters and services from configuration. The index
// is constructed but not opened; each command opens the side it needs.
func initServices() error {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return err
	}
	config = store

	gateway := ocr.NewGateway(ocr.Config{
		Enabled:    store.GetBool(configfile.KeyOCREnabled),
		ServiceURL: store.GetString(configfile.KeyOCRServiceURL),
		Timeout:    time.Duration(store.GetInt(configfile.KeyOCRTimeoutMS)) * time.Millisecond,
		MaxRetries: store.GetInt(configfile.KeyOCRMaxRetries),
	}, ocr.NewLocalEngine())

	registry := parsers.Default(parsers.Options{
		EnableOCR:          store.GetBool(configfile.KeyOCREnabled) && store.GetBool(configfile.KeyIndexingEnableOCR),
		Recognizer:         gateway,
		ImageExtensions:    store.GetStringSlice(configfile.KeyIndexingImageExtensions),
		TextExtensions:     store.GetStringSlice(configfile.KeyIndexingTextExtensions),
		DocumentExtensions: store.GetStringSlice(configfile.KeyIndexingDocumentExtensions),
	})

	dir := store.GetString(configfile.KeyIndexDir)
	if indexDir != "" {
		dir = indexDir
	}
	index = bleveindex.NewStore(dir)

	maxFileBytes := int64(store.GetInt(configfile.KeyIndexingMaxFileSizeMB)) << 20
	ingestSvc := services.NewIngestService(index, registry, maxFileBytes)
	ingestor = ingestSvc
	searcher = services.NewSearchService(index)
	watcher = services.NewWatchService(ingestSvc, index)
	return nil
}

// Execute runs the CLI with the given build version. The context is
// cancelled on shutdown signals so long-running commands stop cleanly.
func Execute(ctx context.Context, ver string) error {
	version = ver
	return rootCmd.ExecuteContext(ctx)
}
