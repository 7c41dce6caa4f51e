package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/idlesession/app/demo"
	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/middleware"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Server.Addr = addr
		}

		log := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := demo.NewApp(ctx, cfg, demo.WithLogger(log))
		if err != nil {
			log.Error("failed to start", logger.Error(err))
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.Warn("failed to close backends", logger.Error(err))
			}
		}()

		log.Info("idle session enforcement configured",
			slog.Duration("timeout", cfg.Idle.Timeout),
			slog.Duration("grace", cfg.Idle.Grace),
			slog.String("keepalive", cfg.Idle.KeepAliveMethod+" "+cfg.Idle.KeepAlivePath),
		)
		return app.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "override SERVER_ADDR")
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetRequestID(ctx)
	return logger.RequestID(id), id != ""
}
