// Package pdf renders DOCX body text into a minimal text-only PDF and
// provides the PDF-side helpers used around it: validation, inspection and
// page rasterization.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spherical/cv-extractor/internal/archive"
	"github.com/spherical/cv-extractor/internal/docxml"
	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/layout"
)

// Converter implements DOCX to PDF conversion
type Converter struct {
	archive   *archive.Reader
	builder   *Builder
	metrics   layout.Metrics
	entryName string
	validator *Validator
	logger    *domain.Logger
}

// Option configures a Converter
type Option func(*Converter)

// WithMetrics overrides the page geometry
func WithMetrics(m layout.Metrics) Option {
	return func(c *Converter) {
		c.metrics = m
	}
}

// WithArchiveReader sets the reader used to locate the document entry
func WithArchiveReader(r *archive.Reader) Option {
	return func(c *Converter) {
		if r != nil {
			c.archive = r
		}
	}
}

// WithEntryName overrides the archive member holding the document body
func WithEntryName(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.entryName = name
		}
	}
}

// WithLogger sets the converter logger
func WithLogger(l *domain.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewConverter creates a new DOCX to PDF converter
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		metrics:   layout.DefaultMetrics(),
		entryName: domain.DocumentEntryName,
		validator: NewValidator(),
		logger:    domain.DefaultLogger.WithPrefix("converter"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.archive == nil {
		c.archive = archive.NewReader(archive.WithLogger(c.logger))
	}
	c.builder = NewBuilder(c.metrics)
	return c
}

// Result is an in-memory conversion outcome
type Result struct {
	PDF        []byte
	Paragraphs int
	Lines      int
	Pages      int
}

// Convert writes a PDF rendition of inputPath to outputPath and returns outputPath
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	stats, err := c.ConvertWithStats(ctx, inputPath, outputPath)
	if err != nil {
		return "", err
	}
	return stats.OutputPath, nil
}

// ConvertWithStats is Convert returning conversion statistics
func (c *Converter) ConvertWithStats(ctx context.Context, inputPath, outputPath string) (*domain.ConversionStats, error) {
	start := time.Now()

	if err := c.validator.ValidateDOCXPath(inputPath); err != nil {
		return nil, err
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, domain.ValidationError("output path cannot be empty", nil)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("cannot open file: %s", inputPath), err)
	}
	defer f.Close()

	res, err := c.Render(ctx, f)
	if err != nil {
		return nil, err
	}

	if err := writeOutput(outputPath, res.PDF); err != nil {
		return nil, err
	}

	stats := &domain.ConversionStats{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Paragraphs: res.Paragraphs,
		Lines:      res.Lines,
		Pages:      res.Pages,
		Bytes:      len(res.PDF),
		Duration:   time.Since(start),
	}
	c.logger.Info("Converted %s -> %s (%d pages, %d bytes) in %v",
		inputPath, outputPath, stats.Pages, stats.Bytes, stats.Duration.Round(time.Millisecond))
	return stats, nil
}

// ConvertBytes converts an in-memory DOCX document
func (c *Converter) ConvertBytes(ctx context.Context, docx []byte) ([]byte, error) {
	res, err := c.Render(ctx, bytes.NewReader(docx))
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// Render runs archive extraction, XML parsing, layout and PDF assembly on a DOCX stream
func (c *Converter) Render(ctx context.Context, docx io.Reader) (*Result, error) {
	xmlData, err := c.archive.ExtractEntry(docx, c.entryName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paragraphs, err := docxml.ParseParagraphs(xmlData)
	if err != nil {
		return nil, err
	}

	lines := layout.Lines(paragraphs, c.metrics.MaxCharsPerLine())
	pages := layout.Paginate(lines, c.metrics.LinesPerPage())
	c.logger.Debug("Laid out %d paragraphs into %d lines on %d pages", len(paragraphs), len(lines), len(pages))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := c.builder.Build(pages)
	if err != nil {
		return nil, err
	}

	return &Result{
		PDF:        data,
		Paragraphs: len(paragraphs),
		Lines:      len(lines),
		Pages:      len(pages),
	}, nil
}

// DefaultOutputPath returns inputPath with its extension replaced by .pdf
func DefaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".pdf"
}

// writeOutput creates the immediate parent directory when missing (one
// level only) and writes data.
func writeOutput(outputPath string, data []byte) error {
	dir := filepath.Dir(outputPath)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return domain.IOError(fmt.Sprintf("cannot create output directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return domain.IOError(fmt.Sprintf("cannot write output file: %s", outputPath), err)
	}
	return nil
}
