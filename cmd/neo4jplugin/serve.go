package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vanshika/neo4j-plugin/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the property validation API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := app.logger
		router := server.NewRouter(logger, server.RouterDependencies{
			Prober: server.GraphProber{
				Dial:           app.dial,
				Scheme:         app.cfg.Graph.Scheme,
				Database:       app.cfg.Graph.Database,
				MaxConnections: 1,
			},
		})
		srv := server.New(logger, app.cfg.HTTP, router)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		ctx := cmd.Context()
		select {
		case <-ctx.Done():
			logger.Info("received shutdown signal")
		case err := <-errCh:
			if err != nil {
				logger.Error("server stopped unexpectedly", "error", err)
				return err
			}
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
