package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duustin25/vigenere-cipher-system/internal/server"
	"github.com/duustin25/vigenere-cipher-system/pkg/config"
	"github.com/duustin25/vigenere-cipher-system/pkg/logging"
	"github.com/duustin25/vigenere-cipher-system/pkg/telemetry"
)

const defaultConfigPath = "config.yaml"

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listenAddr string
		logLevel   string
		prettyLogs bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cipher HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath, listenAddr, logLevel, prettyLogs)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to configuration file (YAML)")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (overrides config)")
	cmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error; overrides config)")
	cmd.Flags().BoolVar(&prettyLogs, "pretty", false, "Enable pretty console logging")

	return cmd
}

func runServe(ctx context.Context, configPath, listenAddr, logLevel string, prettyLogs bool) error {
	provider, err := config.NewFileProvider(configPath, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		_ = provider.Close()
	}()

	cfg := provider.Current()
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if prettyLogs {
		cfg.Logging.Pretty = true
	}

	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})
	slog.SetDefault(logger)

	logger.Info("starting cipher service", "config", configPath, "listen", cfg.Server.Listen)

	shutdownTelemetry, err := telemetry.SetupProvider(ctx, telemetry.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Environment: cfg.Telemetry.Environment,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	srv := server.New(server.Options{
		Config:  cfg,
		Updates: provider.Subscribe(),
		Logger:  logger,
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(runCtx); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
