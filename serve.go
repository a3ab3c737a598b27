package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitormousinho/trabalho-cont/chart"
	"github.com/vitormousinho/trabalho-cont/config"
	"github.com/vitormousinho/trabalho-cont/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		listen     string
		rasterize  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart-to-image HTTP endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Flags win over the file and the environment.
			flags := cmd.Flags()
			if flags.Changed("listen") {
				cfg.Listen = listen
			}
			if flags.Changed("rasterize") {
				cfg.Rasterize = rasterize
			}
			root := cmd.Root().PersistentFlags()
			if root.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if root.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cfg.Logger(os.Stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			return runServer(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Env file loaded before reading CHART_* variables")
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (e.g. :8080, 127.0.0.1:9000)")
	cmd.Flags().BoolVar(&rasterize, "rasterize", false, "Enable png/jpg output through headless Chrome")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := server.Options{
		MaxBodyBytes:    cfg.MaxBodyBytes,
		Logger:          logger,
		ShutdownTimeout: cfg.ShutdownTimeout.Duration,
	}
	if cfg.Rasterize {
		opts.Rasterizer = chart.NewChromeRasterizer(chart.ChromeOptions{
			ExecPath:  cfg.ChromePath,
			NoSandbox: cfg.NoSandbox,
			Timeout:   cfg.RasterTimeout.Duration,
		})
	}

	logger.Info("Starting chart server", "listen", cfg.Listen, "rasterize", cfg.Rasterize, "max_body_bytes", cfg.MaxBodyBytes)
	return server.New(opts).Serve(ctx, cfg.Listen)
}
