package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitormousinho/trabalho-cont/chart"
)

// renderOptions holds the flags of the render command.
type renderOptions struct {
	output     string
	format     string
	chromePath string
	noSandbox  bool
	timeout    time.Duration
}

var supportedFormats = map[string]bool{"svg": true, "datauri": true, "json": true, "html": true, "png": true, "jpg": true, "jpeg": true}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <chart.json>",
		Short: "Render a chart description file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "Output format: svg, datauri, json, html, png, jpg/jpeg")
	cmd.Flags().StringVar(&opts.chromePath, "chrome-path", "", "Chrome executable for png/jpg output")
	cmd.Flags().BoolVar(&opts.noSandbox, "no-sandbox", false, "Run Chrome without its sandbox")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Rasterization timeout")
	return cmd
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func runRender(ctx context.Context, inputPath string, opts *renderOptions, stdout io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exportFormat := strings.ToLower(opts.format)
	if !supportedFormats[exportFormat] {
		return fmt.Errorf("unsupported export format '%s'. Supported formats: svg, datauri, json, html, png, jpg/jpeg", exportFormat)
	}

	slog.Debug("Reading chart file", "path", inputPath)
	data, err := readInput(inputPath, os.Stdin)
	if err != nil {
		return fmt.Errorf("error reading chart file '%s': %w", inputPath, err)
	}
	desc, err := chart.Decode(data)
	if err != nil {
		return fmt.Errorf("error parsing chart JSON '%s': %w", inputPath, err)
	}

	content, err := generateOutput(ctx, desc, exportFormat, opts)
	if err != nil {
		return fmt.Errorf("error generating %s: %w", exportFormat, err)
	}

	if opts.output == "" {
		_, err = stdout.Write(content)
		return err
	}

	outFile, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("error creating output file '%s': %w", opts.output, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			if removeErr := os.Remove(opts.output); removeErr != nil {
				slog.Warn("Could not remove output file after error", "path", opts.output, "err", removeErr)
			}
		}
	}()
	if _, err = outFile.Write(content); err != nil {
		return fmt.Errorf("failed to write %s output: %w", exportFormat, err)
	}
	slog.Info("Chart written", "format", exportFormat, "path", opts.output, "bytes", len(content))
	return nil
}

// generateOutput renders desc in one of the CLI output formats.
func generateOutput(ctx context.Context, desc chart.Description, exportFormat string, opts *renderOptions) ([]byte, error) {
	switch exportFormat {
	case "svg":
		svg, err := chart.GenerateSVG(desc)
		return []byte(svg), err
	case "datauri":
		img, err := chart.Render(desc)
		if err != nil {
			return nil, err
		}
		return []byte(img.DataURI + "\n"), nil
	case "json":
		img, err := chart.Render(desc)
		if err != nil {
			return nil, err
		}
		out, err := json.MarshalIndent(map[string]string{
			"svg":     img.SVG,
			"dataUri": img.DataURI,
			"type":    string(chart.FormatSVG),
		}, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "html":
		page, err := chart.GenerateHTML(desc)
		return []byte(page), err
	}

	format, err := chart.ParseFormat(exportFormat)
	if err != nil {
		return nil, err
	}
	rasterizer := chart.NewChromeRasterizer(chart.ChromeOptions{
		ExecPath:  opts.chromePath,
		NoSandbox: opts.noSandbox,
		Timeout:   opts.timeout,
	})
	slog.Debug("Rasterizing chart through headless Chrome", "format", format)
	return chart.Export(ctx, desc, format, rasterizer)
}
