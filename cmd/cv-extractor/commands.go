package main

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/cv-extractor/internal/pdf"
	"github.com/spherical/cv-extractor/internal/server"
)

// newInspectCmd creates the inspect subcommand.
func newInspectCmd() *cobra.Command {
	var showText bool

	cmd := &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Show page count and text of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pdf.NewValidator().ValidatePDFPath(args[0]); err != nil {
				return err
			}
			info, err := pdf.Inspect(args[0])
			if err != nil {
				return err
			}

			ui := NewUI(outputJSON)
			if outputJSON {
				return ui.JSON(info)
			}
			ui.Info("%s: %d pages, %d bytes", args[0], info.Pages, info.Bytes)
			if showText {
				for i, text := range info.PageTexts {
					fmt.Printf("--- page %d ---\n%s\n", i+1, strings.TrimRight(text, "\n"))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "print the text of each page")
	return cmd
}

// newExtractCmd creates the extract subcommand.
func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract structured CV data from a DOCX, PDF or image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			client := newLLMClient()
			if client == nil {
				return fmt.Errorf("OPENROUTER_API_KEY is not set; add it to your environment or .env file")
			}
			svc := newService(newConverter(), client)

			ui := NewUI(outputJSON)
			stop := ui.Spinner(fmt.Sprintf("Extracting %s with %s", args[0], client.Model()))
			result, err := svc.Process(ctx, args[0])
			stop()
			if err != nil {
				return err
			}

			if outputJSON {
				return ui.JSON(result.Record)
			}

			r := result.Record
			ui.Success("Extracted %s in %v", args[0], result.Duration.Round(time.Millisecond))
			if r.IsEmpty() {
				ui.Warning("No CV fields were found")
				return nil
			}
			printField("Name", r.Name)
			printField("Headline", r.Headline)
			printField("Email", r.Email)
			printField("Phone", r.Phone)
			printField("Location", r.Location)
			printField("Skills", strings.Join(r.Skills, ", "))
			printField("Languages", strings.Join(r.Languages, ", "))
			for _, e := range r.Experience {
				printField("Experience", strings.TrimSpace(fmt.Sprintf("%s, %s (%s - %s)", e.Title, e.Company, e.StartDate, e.EndDate)))
			}
			for _, e := range r.Education {
				printField("Education", strings.TrimSpace(fmt.Sprintf("%s %s, %s", e.Degree, e.Field, e.Institution)))
			}
			return nil
		},
	}
	return cmd
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-11s %s\n", label+":", value)
}

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversion and extraction over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			converter := newConverter()
			var processor server.Processor
			if client := newLLMClient(); client != nil {
				processor = newService(converter, client)
			} else {
				logger.Warn("OPENROUTER_API_KEY is not set; /v1/extract is disabled")
			}

			srv := server.New(server.Config{
				Addr:             cfg.Address(),
				ReadTimeout:      cfg.Server.ReadTimeout,
				WriteTimeout:     cfg.Server.WriteTimeout,
				GracefulShutdown: cfg.Server.GracefulShutdown,
				MaxUploadBytes:   cfg.Server.MaxUploadBytes,
				WorkDir:          cfg.Upload.WorkDir,
			}, converter, processor)

			return srv.ListenAndServe(ctx)
		},
	}
	return cmd
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version": version,
				"go":      runtime.Version(),
				"os":      runtime.GOOS + "/" + runtime.GOARCH,
			}
			if outputJSON {
				return NewUI(true).JSON(info)
			}
			fmt.Printf("cv-extractor %s (%s, %s)\n", info["version"], info["go"], info["os"])
			return nil
		},
	}
}
