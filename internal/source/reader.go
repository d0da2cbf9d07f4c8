package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/vanshika/neo4j-plugin/internal/graph"
	"github.com/vanshika/neo4j-plugin/internal/record"
)

// Emitter receives mapped records. Emit may be called from several split
// tasks at once.
type Emitter interface {
	Emit(ctx context.Context, split Split, rec *record.Record) error
}

// EmitFunc adapts a function to the Emitter interface.
type EmitFunc func(ctx context.Context, split Split, rec *record.Record) error

func (f EmitFunc) Emit(ctx context.Context, split Split, rec *record.Record) error {
	return f(ctx, split, rec)
}

// Options carries runtime settings that are not plugin properties.
type Options struct {
	Scheme         string
	Database       string
	MaxConnections int
	// Schema is the declared output schema. When nil it is inferred from a
	// sample of the input query's rows.
	Schema *record.Schema
}

// Stats summarises a finished read.
type Stats struct {
	Splits   int
	Records  int64
	Duration time.Duration
}

// Reader executes a validated source configuration against a graph client.
type Reader struct {
	cfg    Config
	client graph.Client
	logger *slog.Logger
	schema *record.Schema
}

// NewReader constructs a Reader. The config is expected to be valid.
func NewReader(cfg Config, client graph.Client, logger *slog.Logger) *Reader {
	return &Reader{cfg: cfg, client: client, logger: logger}
}

// WithSchema makes every split map rows against schema instead of an
// inferred one.
func (r *Reader) WithSchema(schema record.Schema) *Reader {
	r.schema = &schema
	return r
}

// Schema returns the output schema shared by all splits of a read. Without a
// declared schema it samples up to schemaSampleSize rows of the input query.
// ok is false when the sample is empty, in which case there is nothing to read.
func (r *Reader) Schema(ctx context.Context) (schema record.Schema, ok bool, err error) {
	if r.schema != nil {
		return *r.schema, true, nil
	}

	var sample []graph.Row
	err = r.client.Read(ctx, SampleQuery(r.cfg.InputQuery), map[string]any{paramSchemaSample: schemaSampleSize}, func(row graph.Row) error {
		sample = append(sample, row)
		return nil
	})
	if err != nil {
		return record.Schema{}, false, fmt.Errorf("sample input rows: %w", err)
	}
	if len(sample) == 0 {
		return record.Schema{}, false, nil
	}
	schema, err = InferSchema(sample...)
	if err != nil {
		return record.Schema{}, false, err
	}
	r.logger.Debug("inferred schema", "fields", schema.Names(), "sampled", len(sample))
	return schema, true, nil
}

// Plan returns the splits to read. A single split runs the input query as is;
// more splits first count the result rows.
func (r *Reader) Plan(ctx context.Context) ([]Split, error) {
	n := r.cfg.SplitCount()
	if n == 1 {
		return []Split{{Query: r.cfg.InputQuery}}, nil
	}

	var total int64
	err := r.client.Read(ctx, CountQuery(r.cfg.InputQuery), nil, func(row graph.Row) error {
		v, ok := row.Get(countColumn)
		if !ok {
			return fmt.Errorf("count query returned no %q column", countColumn)
		}
		count, ok := asInt64(v)
		if !ok {
			return fmt.Errorf("count query returned %T", v)
		}
		total = count
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count input rows: %w", err)
	}

	splits := PlanRanges(r.cfg.InputQuery, r.cfg.OrderBy, total, n)
	r.logger.Debug("planned splits", "requested", n, "planned", len(splits), "rows", total)
	return splits, nil
}

// ReadSplit streams one split through the mapper into emit, mapping every row
// against schema.
func (r *Reader) ReadSplit(ctx context.Context, split Split, schema record.Schema, emit Emitter) (int64, error) {
	var emitted int64
	err := r.client.Read(ctx, split.Query, split.Params, func(row graph.Row) error {
		rec, err := MapRow(schema, row)
		if err != nil {
			return err
		}
		if err := emit.Emit(ctx, split, rec); err != nil {
			return fmt.Errorf("emit record: %w", err)
		}
		emitted++
		return nil
	})
	if err != nil {
		return emitted, fmt.Errorf("read split %d: %w", split.Index, err)
	}
	return emitted, nil
}

// Read resolves the output schema once, plans the splits and reads them in
// parallel. The first failing split cancels the others.
func (r *Reader) Read(ctx context.Context, emit Emitter) (Stats, error) {
	start := time.Now()

	schema, ok, err := r.Schema(ctx)
	if err != nil {
		return Stats{}, err
	}
	if !ok {
		return Stats{Duration: time.Since(start)}, nil
	}

	splits, err := r.Plan(ctx)
	if err != nil {
		return Stats{}, err
	}

	var records atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, split := range splits {
		split := split
		g.Go(func() error {
			n, err := r.ReadSplit(gctx, split, schema, emit)
			records.Add(n)
			if err != nil {
				return err
			}
			r.logger.Debug("split complete", "split", split.Index, "records", n)
			return nil
		})
	}
	err = g.Wait()

	stats := Stats{Splits: len(splits), Records: records.Load(), Duration: time.Since(start)}
	return stats, err
}

// Run validates cfg, opens a client with dial, reads every split and closes
// the client on all paths. An invalid config never reaches the dialer.
func Run(ctx context.Context, cfg Config, dial graph.Dialer, opts Options, emit Emitter, logger *slog.Logger) (stats Stats, err error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}

	logger = logger.With("component", "source", "run", uuid.NewString(), "connection", cfg.ConnectionConfig)

	client, err := dial(ctx, graph.OptionsFor(cfg.ConnectionConfig, opts.Scheme, opts.Database, opts.MaxConnections))
	if err != nil {
		return Stats{}, fmt.Errorf("connect to %s: %w", cfg.BoltURI(opts.Scheme), err)
	}
	defer func() {
		if cerr := client.Close(context.Background()); cerr != nil {
			logger.Warn("closing graph client failed", "error", cerr)
		}
	}()

	reader := NewReader(cfg, client, logger)
	if opts.Schema != nil {
		reader.WithSchema(*opts.Schema)
	}
	stats, err = reader.Read(ctx, emit)
	if err != nil {
		logger.Error("read failed", "error", err, "records", stats.Records)
		return stats, err
	}
	logger.Info("read complete", "splits", stats.Splits, "records", stats.Records, "duration", stats.Duration.String())
	return stats, nil
}
