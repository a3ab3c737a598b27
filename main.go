// Command chartimage renders chart descriptions into SVG, HTML or raster
// images, either once from a file or as an HTTP service.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitormousinho/trabalho-cont/config"
)

var (
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chartimage",
		Short: "Render chart descriptions into images",
		Long: `chartimage turns a JSON chart description (type, labels, datasets)
into a self-contained SVG image, a data URI, an HTML preview or a PNG/JPEG.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configureLogging(logLevel, logFormat)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "logfmt", "Log format: logfmt, json")

	rootCmd.AddCommand(newRenderCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging sets the default slog logger. Logs go to stderr so that
// rendered output can be written to stdout.
func configureLogging(level, format string) error {
	cfg := config.Default()
	cfg.LogLevel = level
	cfg.LogFormat = format
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
