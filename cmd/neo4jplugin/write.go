package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
	"github.com/vanshika/neo4j-plugin/internal/record"
	"github.com/vanshika/neo4j-plugin/internal/sink"
)

var (
	writeProperties string
	writeInput      string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Run the sink over records read as JSON lines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		props, err := plugin.LoadProperties(writeProperties)
		if err != nil {
			return err
		}
		collector := plugin.NewFailureCollector()
		cfg := sink.FromProperties(props, collector)
		if err := reportFailures(cmd.ErrOrStderr(), collector); err != nil {
			return err
		}

		in := cmd.InOrStdin()
		if writeInput != "" && writeInput != "-" {
			file, err := os.Open(writeInput)
			if err != nil {
				return fmt.Errorf("open %s: %w", writeInput, err)
			}
			defer file.Close()
			in = file
		}

		records, err := loadRecords(in)
		if err != nil {
			return err
		}

		opts := sink.Options{
			Scheme:         app.cfg.Graph.Scheme,
			Database:       app.cfg.Graph.Database,
			MaxConnections: app.cfg.Graph.MaxConnections,
			Workers:        app.cfg.Sink.Workers,
		}
		stats, err := sink.Run(cmd.Context(), cfg, app.dial, opts, records, app.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records (%d nodes created, %d relationships created, %d properties set)\n",
			stats.Records, stats.NodesCreated, stats.RelationshipsCreated, stats.PropertiesSet)
		return nil
	},
}

func init() {
	writeCmd.Flags().StringVarP(&writeProperties, "properties", "p", "", "YAML file of sink properties")
	writeCmd.Flags().StringVarP(&writeInput, "input", "i", "-", "JSON lines input file, - for stdin")
	_ = writeCmd.MarkFlagRequired("properties")
}

// loadRecords decodes one JSON object per line. Integral numbers become
// int64 so that they reach the database as integers.
func loadRecords(r io.Reader) ([]*record.Record, error) {
	var records []*record.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode line %d: %w", line, err)
		}
		rec, err := record.FromNative(fromJSON(raw).(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return records, nil
}

func fromJSON(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = fromJSON(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromJSON(item)
		}
		return out
	default:
		return val
	}
}
