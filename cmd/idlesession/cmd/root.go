package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/idlesession/app/demo"
	"github.com/dmitrymomot/idlesession/core/config"
	"github.com/dmitrymomot/idlesession/core/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "idlesession",
	Short: "Idle session timeout service",
	Long: `Runs an HTTP service that expires authenticated sessions after a period
of inactivity, with a grace window and an explicit keep-alive endpoint.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func loadConfig() (demo.Config, error) {
	var cfg demo.Config
	if err := config.Load(&cfg); err != nil {
		return demo.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(cfg demo.Config) *slog.Logger {
	opts := []logger.Option{}
	switch cfg.Env {
	case "production":
		opts = append(opts, logger.WithProduction(cfg.AppName))
	case "staging":
		opts = append(opts, logger.WithStaging(cfg.AppName))
	default:
		opts = append(opts, logger.WithDevelopment(cfg.AppName))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	opts = append(opts, logger.WithContextExtractors(requestIDExtractor))

	log := logger.New(opts...)
	logger.SetAsDefault(log)
	return log
}
