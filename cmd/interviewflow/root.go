package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/embld/interviewflow/internal/cli"
	"github.com/embld/interviewflow/internal/config"
	"github.com/embld/interviewflow/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "interviewflow",
	Short: "Interview-driven service planning",
	Long: `interviewflow interviews a founder about a service idea, assesses it,
and writes a product requirements document and an implementation plan.

It runs as an interactive terminal session, an HTTP API or an MCP server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfg    config.Config
	logger *slog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a YAML configuration file")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
}

// setup loads the configuration, applies flag overrides and creates the logger.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		loaded.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		loaded.Log.Format = v
	}

	cfg = loaded
	return setLogger("text")
}

// setLogger creates the logger, using fallback when no format is configured.
func setLogger(fallback string) error {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	format := cfg.Log.Format
	if format == "" {
		format = fallback
	}
	logger, err = logging.NewFormat(format, level)
	return err
}

// buildApp assembles the application for commands that need the engine.
func buildApp(ctx context.Context, opts ...cli.BuildOption) (*cli.App, error) {
	app, err := cli.Build(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return app, nil
}
