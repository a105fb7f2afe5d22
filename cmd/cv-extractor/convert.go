package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/pdf"
)

// newConvertCmd creates the convert subcommand.
func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <input.docx>",
		Short: "Render the body text of a DOCX file as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			input := args[0]
			if output == "" {
				output = pdf.DefaultOutputPath(input)
			}

			stats, err := newConverter().ConvertWithStats(ctx, input, output)
			if err != nil {
				return err
			}

			ui := NewUI(outputJSON)
			if outputJSON {
				return ui.JSON(statsDTO(stats))
			}
			ui.Success("Wrote %s (%d pages, %d lines) in %v",
				stats.OutputPath, stats.Pages, stats.Lines, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path (default: <input>.pdf)")
	return cmd
}

// newBatchCmd creates the batch subcommand.
func newBatchCmd() *cobra.Command {
	var (
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Convert every .docx file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			dir := args[0]
			inputs, err := docxFiles(dir)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = dir
			}
			if workers <= 0 {
				workers = cfg.Batch.Workers
			}

			ui := NewUI(outputJSON)
			if len(inputs) == 0 {
				ui.Warning("No .docx files found in %s", dir)
				return nil
			}

			converter := newConverter()
			// Debug output would interleave with the bar.
			var bar *progressbar.ProgressBar
			if logger.Level() > domain.LogLevelDebug {
				bar = ui.ProgressBar(len(inputs), "Converting")
			}

			var (
				mu       sync.Mutex
				results  []map[string]any
				failures int
			)

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(workers)

			for _, input := range inputs {
				g.Go(func() error {
					output := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))+".pdf")
					stats, err := converter.ConvertWithStats(gctx, input, output)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						failures++
						logger.Debug("Failed to convert %s: %v", input, err)
						ui.Error("%s: %v", input, err)
						results = append(results, map[string]any{"input": input, "error": err.Error()})
					} else {
						results = append(results, statsDTO(stats))
					}
					if bar != nil {
						_ = bar.Add(1)
					}
					// A cancelled context stops the remaining work; single-file failures do not.
					return gctx.Err()
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			if outputJSON {
				if err := ui.JSON(results); err != nil {
					return err
				}
			} else {
				ui.Success("Converted %d of %d files into %s", len(inputs)-failures, len(inputs), outDir)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d conversions failed", failures, len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: input directory)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent conversions (default: batch.workers from config)")
	return cmd
}

// docxFiles lists .docx files directly inside dir, skipping Word lock files.
func docxFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.ValidationError(fmt.Sprintf("cannot read directory: %s", dir), err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".docx") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func statsDTO(s *domain.ConversionStats) map[string]any {
	return map[string]any{
		"input":      s.InputPath,
		"output":     s.OutputPath,
		"paragraphs": s.Paragraphs,
		"lines":      s.Lines,
		"pages":      s.Pages,
		"bytes":      s.Bytes,
		"durationMs": s.Duration.Milliseconds(),
	}
}
