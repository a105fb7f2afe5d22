// Package extractor is the public API for DOCX to PDF conversion and CV
// extraction.
package extractor

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/extract"
	"github.com/spherical/cv-extractor/internal/llm"
	"github.com/spherical/cv-extractor/internal/pdf"
)

// Re-export result types for the public API
type (
	CVRecord        = domain.CVRecord
	Experience      = domain.Experience
	Education       = domain.Education
	ConversionStats = domain.ConversionStats
	Result          = extract.Result
)

// Upload modes
const (
	ModePDF    = extract.ModePDF
	ModeImages = extract.ModeImages
)

// Client is the main entry point for the extractor library
type Client struct {
	converter *pdf.Converter
	service   *extract.Service
	llm       *llm.Client
}

// Config holds configuration options for the client
type Config struct {
	APIKey       string        // OpenRouter API key; only Extract needs it
	Model        string        // Optional: LLM model override
	BaseURL      string        // Optional: chat-completions endpoint override
	Timeout      time.Duration // Optional: per-request timeout
	Mode         string        // ModePDF (default) or ModeImages
	ImageQuality int           // JPEG quality for ModeImages
	WorkDir      string        // Directory for temporary files
}

// NewClient creates a client configured from the environment (.env is loaded when present)
func NewClient() (*Client, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	return NewClientWithConfig(&Config{
		APIKey: os.Getenv("OPENROUTER_API_KEY"),
		Model:  os.Getenv("LLM_MODEL"),
	})
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Mode != "" && config.Mode != ModePDF && config.Mode != ModeImages {
		return nil, domain.ConfigError("mode must be pdf or images, got "+config.Mode, nil)
	}

	c := &Client{converter: pdf.NewConverter()}

	var extractor domain.Extractor
	if config.APIKey != "" {
		c.llm = llm.NewClientWithConfig(llm.Config{
			APIKey:  config.APIKey,
			Model:   config.Model,
			BaseURL: config.BaseURL,
			Timeout: config.Timeout,
		})
		extractor = c.llm
	}

	c.service = extract.NewService(c.converter,
		func() domain.Rasterizer { return pdf.NewRasterizer(config.WorkDir) },
		extractor,
		extract.Options{
			Mode:         config.Mode,
			ImageQuality: config.ImageQuality,
			WorkDir:      config.WorkDir,
		})
	return c, nil
}

// Convert renders the body text of a DOCX file as a PDF and returns the output path.
// An empty outputPath writes next to the input.
func (c *Client) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = pdf.DefaultOutputPath(inputPath)
	}
	return c.converter.Convert(ctx, inputPath, outputPath)
}

// ConvertBytes converts an in-memory DOCX document to PDF bytes
func (c *Client) ConvertBytes(ctx context.Context, docx []byte) ([]byte, error) {
	return c.converter.ConvertBytes(ctx, docx)
}

// Extract returns the CV record found in a DOCX, PDF, JPEG or PNG file
func (c *Client) Extract(ctx context.Context, path string) (*Result, error) {
	if c.llm == nil {
		return nil, domain.ConfigError("OPENROUTER_API_KEY not set", nil)
	}
	return c.service.Process(ctx, path)
}
