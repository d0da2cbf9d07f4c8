package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
	"github.com/vanshika/neo4j-plugin/internal/record"
	"github.com/vanshika/neo4j-plugin/internal/source"
)

var (
	readProperties string
	readOutput     string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Run the source and write records as JSON lines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		props, err := plugin.LoadProperties(readProperties)
		if err != nil {
			return err
		}
		collector := plugin.NewFailureCollector()
		cfg := source.FromProperties(props, collector)
		if err := reportFailures(cmd.ErrOrStderr(), collector); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if readOutput != "" && readOutput != "-" {
			file, err := os.Create(readOutput)
			if err != nil {
				return fmt.Errorf("open %s: %w", readOutput, err)
			}
			defer file.Close()
			out = file
		}

		opts := source.Options{
			Scheme:         app.cfg.Graph.Scheme,
			Database:       app.cfg.Graph.Database,
			MaxConnections: app.cfg.Graph.MaxConnections,
		}
		_, err = source.Run(cmd.Context(), cfg, app.dial, opts, newJSONLinesEmitter(out), app.logger)
		return err
	},
}

func init() {
	readCmd.Flags().StringVarP(&readProperties, "properties", "p", "", "YAML file of source properties")
	readCmd.Flags().StringVarP(&readOutput, "output", "o", "-", "output file, - for stdout")
	_ = readCmd.MarkFlagRequired("properties")
}

// jsonLinesEmitter serializes records from concurrent splits onto one writer.
type jsonLinesEmitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newJSONLinesEmitter(w io.Writer) *jsonLinesEmitter {
	return &jsonLinesEmitter{enc: json.NewEncoder(w)}
}

func (e *jsonLinesEmitter) Emit(_ context.Context, _ source.Split, rec *record.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(rec)
}
