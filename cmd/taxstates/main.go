// Package main provides the CLI entry point for taxstates-go.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xp1/taxstates-go/pkg/taxstates"
	"github.com/xp1/taxstates-go/pkg/taxstates/fetch"
)

var (
	configPath  string
	dataDir     string
	buildDir    string
	only        string
	maxAttempts int
	timeout     time.Duration
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taxstates",
		Short: "Build tax sale state tables from published state listings",
		Long: `taxstates fetches the published tax lien certificate and tax deed state
listings, extracts one record per state, and writes each dataset as a styled
Excel workbook, CSV, JSON, and Markdown.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML dataset file (default: built-in datasets)")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory for fetched markup")
	rootCmd.Flags().StringVar(&buildDir, "build-dir", "build", "Directory for output artifacts")
	rootCmd.Flags().StringVar(&only, "only", "", "Build a single dataset by name")
	rootCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Cap fetch retries (0 = retry until success)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Per-request fetch timeout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger(verbose)
	defer logger.Sync()

	datasets := taxstates.DefaultDatasets()
	if configPath != "" {
		loaded, err := taxstates.LoadDatasets(configPath)
		if err != nil {
			return err
		}
		datasets = loaded
	}

	if only != "" {
		filtered := datasets[:0]
		for _, d := range datasets {
			if d.Name == only {
				filtered = append(filtered, d)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("unknown dataset: %s", only)
		}
		datasets = filtered
	}

	builder := taxstates.NewBuilder(taxstates.Options{
		DataDir:  dataDir,
		BuildDir: buildDir,
		Logger:   logger,
		Fetch: fetch.Config{
			Timeout:     timeout,
			MaxAttempts: maxAttempts,
		},
	})
	return builder.Run(cmd.Context(), datasets)
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
