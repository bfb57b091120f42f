package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aybee/nickbot/internal/app"
	"github.com/aybee/nickbot/internal/config"
	"github.com/aybee/nickbot/internal/log"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "nickbot",
	Short:         "Chat bot that resolves in-game nicknames by player id",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func run(_ *cobra.Command, _ []string) error {
	bootLogger := log.New("info")

	cfg, path, err := config.Load(bootLogger, configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", path).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("group", cfg.RequiredGroup).
		Str("status_addr", cfg.StatusAddr).
		Msg("starting nickbot")

	if err := application.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("bot stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		bootLogger := log.New("error")
		bootLogger.Error().Err(err).Msg("nickbot exited with error")
		os.Exit(1)
	}
}
