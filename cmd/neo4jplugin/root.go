package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanshika/neo4j-plugin/internal/config"
	"github.com/vanshika/neo4j-plugin/internal/graph"
	"github.com/vanshika/neo4j-plugin/internal/logging"
)

// app is populated by the root command before any subcommand runs.
var app struct {
	cfg    config.Config
	logger *slog.Logger
	dial   graph.Dialer
}

var rootCmd = &cobra.Command{
	Use:   "neo4jplugin",
	Short: "Read from and write to Neo4j as a pipeline source or sink",
	Long: `neo4jplugin runs the Neo4j source and sink outside of a pipeline host.

Plugin properties (neo4jHost, neo4jPort, username, password, inputQuery,
outputQuery, splitNum, orderBy, referenceName) are read from a YAML file.
Values may reference environment variables as ${NAME}, which is the
recommended way to supply the password.

Runtime settings come from the environment: GRAPH_URI_SCHEME, GRAPH_DATABASE,
GRAPH_MAX_CONNECTIONS, SINK_WORKERS, LOG_LEVEL, LOG_FORMAT, SERVER_*.`,
	PersistentPreRunE: loadRuntime,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.AddCommand(validateCmd, readCmd, writeCmd, serveCmd)
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func loadRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg
	app.logger = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging).With("command", cmd.Name())
	if app.dial == nil {
		app.dial = graph.NewNeo4jClient
	}
	return nil
}
