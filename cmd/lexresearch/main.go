package main

import (
	"fmt"
	"os"
	"time"

	"lexresearch-backend/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	corpusPath string
	timeout    time.Duration

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lexresearch",
	Short: "Hybrid legal authority retrieval and precedent research",
	Long: `lexresearch ranks legal authorities for a query with BM25 and dense
embeddings, maps them into a knowledge graph, groups them by precedent
direction and writes a research report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if corpusPath != "" {
			cfg.CorpusSource = "file"
			cfg.CorpusPath = corpusPath
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = config.NewLogger(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&corpusPath, "corpus", "", "Corpus file (JSON or YAML); overrides LEXRESEARCH_CORPUS_*")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Minute, "Operation timeout")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(publishCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
