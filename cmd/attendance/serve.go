package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	httpserver "github.com/classroll/attendance-tracker/internal/interface/http"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracker over a local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				hc := httpserver.Config{
					Host:         a.cfg.HTTP.Host,
					Port:         a.cfg.HTTP.Port,
					ReadTimeout:  a.cfg.HTTP.ReadTimeout,
					WriteTimeout: a.cfg.HTTP.WriteTimeout,
				}
				if cmd.Flags().Changed("host") {
					hc.Host = host
				}
				if cmd.Flags().Changed("port") {
					hc.Port = port
				}

				server := httpserver.NewServer(hc, httpserver.Dependencies{
					Tracker: a.tracker,
					Clock:   a.clock,
					Logger:  a.log,
					Storage: a.storage,
				})

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.Start()
				}()

				// ─────────────────────────────────────────────────────────────
				// Ожидание сигнала завершения
				// ─────────────────────────────────────────────────────────────
				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				a.log.Info("starting graceful shutdown", logger.Duration("timeout", a.cfg.App.ShutdownTimeout))
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				select {
				case err := <-errCh:
					return err
				case <-time.After(a.cfg.App.ShutdownTimeout):
					return nil
				}
			})
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "address to bind")
	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	return cmd
}
