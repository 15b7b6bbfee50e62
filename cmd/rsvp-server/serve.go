package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/app"
	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/logging"
	"wedding-rsvp/internal/server"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept RSVP submissions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if port != "" {
				cfg.Port = port
			}
			log := logging.New(cfg.LogLevel, cfg.LogPretty)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			e := server.New(a.Handler, cfg.AllowOrigins, log)
			go func() {
				log.Info().Str("port", cfg.Port).Msg("Listening")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("HTTP server stopped")
					cancel()
				}
			}()

			<-ctx.Done()
			log.Info().Msg("Shutting down")
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelShutdown()
			return e.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides PORT)")
	return cmd
}
