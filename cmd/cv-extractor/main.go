// Package main provides the cv-extractor CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spherical/cv-extractor/internal/archive"
	"github.com/spherical/cv-extractor/internal/config"
	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/extract"
	"github.com/spherical/cv-extractor/internal/llm"
	"github.com/spherical/cv-extractor/internal/pdf"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *domain.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "cv-extractor",
	Short: "Convert DOCX resumes to PDF and extract structured CV data",
	Long: `cv-extractor renders the body text of DOCX documents as plain PDF pages
and sends documents to a vision-capable LLM to extract structured CV fields.

Environment variables (also read from .env):
  OPENROUTER_API_KEY    OpenRouter API key (required for extract)
  LLM_MODEL             Override the extraction model
  LOG_LEVEL, LOG_FORMAT Logging settings`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // Ignore error if .env doesn't exist

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logCfg := cfg.LogConfig()
		if verbose {
			logCfg.Level = domain.LogLevelDebug
		}
		if outputJSON {
			logCfg.Format = "json"
		}
		logger = domain.NewLoggerWithConfig(logCfg)
		domain.SetDefaultLogger(logger)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults and env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newConverter builds a converter from the loaded configuration.
func newConverter() *pdf.Converter {
	return pdf.NewConverter(
		pdf.WithMetrics(cfg.Metrics()),
		pdf.WithEntryName(cfg.Archive.EntryName),
		pdf.WithArchiveReader(archive.NewReader(
			archive.WithMaxEntryBytes(cfg.Archive.MaxEntryBytes),
			archive.WithLogger(logger.WithPrefix("archive")),
		)),
		pdf.WithLogger(logger.WithPrefix("converter")),
	)
}

// newLLMClient returns nil when no API key is configured.
func newLLMClient() *llm.Client {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	retry := llm.DefaultRetryConfig()
	retry.MaxRetries = cfg.LLM.MaxRetries
	return llm.NewClientWithConfig(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
		Retry:   retry,
	})
}

// newService wires conversion, rasterization and the LLM client.
func newService(converter *pdf.Converter, client *llm.Client) *extract.Service {
	var extractor domain.Extractor
	if client != nil {
		extractor = client
	}
	return extract.NewService(converter,
		func() domain.Rasterizer {
			return pdf.NewRasterizer(cfg.Upload.WorkDir, pdf.WithRasterizerLogger(logger.WithPrefix("rasterizer")))
		},
		extractor,
		extract.Options{
			Mode:         cfg.Upload.Mode,
			ImageQuality: cfg.Upload.ImageQuality,
			WorkDir:      cfg.Upload.WorkDir,
			Logger:       logger,
		})
}
