package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/vanshika/neo4j-plugin/internal/graph"
	"github.com/vanshika/neo4j-plugin/internal/record"
)

const defaultWorkers = 4

// Options carries runtime settings that are not plugin properties.
type Options struct {
	Scheme         string
	Database       string
	MaxConnections int
	Workers        int
}

// Stats accumulates write counters across workers.
type Stats struct {
	Records              int64
	NodesCreated         int64
	NodesDeleted         int64
	RelationshipsCreated int64
	RelationshipsDeleted int64
	PropertiesSet        int64
	Duration             time.Duration
}

type counters struct {
	records, nodesCreated, nodesDeleted     atomic.Int64
	relsCreated, relsDeleted, propertiesSet atomic.Int64
}

func (c *counters) add(s graph.WriteSummary) {
	c.records.Inc()
	c.nodesCreated.Add(int64(s.NodesCreated))
	c.nodesDeleted.Add(int64(s.NodesDeleted))
	c.relsCreated.Add(int64(s.RelationshipsCreated))
	c.relsDeleted.Add(int64(s.RelationshipsDeleted))
	c.propertiesSet.Add(int64(s.PropertiesSet))
}

func (c *counters) stats() Stats {
	return Stats{
		Records:              c.records.Load(),
		NodesCreated:         c.nodesCreated.Load(),
		NodesDeleted:         c.nodesDeleted.Load(),
		RelationshipsCreated: c.relsCreated.Load(),
		RelationshipsDeleted: c.relsDeleted.Load(),
		PropertiesSet:        c.propertiesSet.Load(),
	}
}

// Writer runs the output query once per record using a pool of workers.
type Writer struct {
	cfg     Config
	client  graph.Client
	workers int
	logger  *slog.Logger
}

// NewWriter creates a Writer with the provided concurrency.
func NewWriter(cfg Config, client graph.Client, workers int, logger *slog.Logger) *Writer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Writer{cfg: cfg, client: client, workers: workers, logger: logger}
}

// WriteRecord runs the output query with the record fields as parameters.
func (w *Writer) WriteRecord(ctx context.Context, rec *record.Record) (graph.WriteSummary, error) {
	return w.client.Write(ctx, w.cfg.OutputQuery, rec.Native())
}

// Write writes every record. Failed records do not stop the others; their
// errors are combined in the returned error.
func (w *Writer) Write(ctx context.Context, records []*record.Record) (Stats, error) {
	start := time.Now()
	var c counters
	err := w.run(ctx, len(records), func(idx int) error {
		summary, err := w.WriteRecord(ctx, records[idx])
		if err != nil {
			return fmt.Errorf("write record %d: %w", idx, err)
		}
		c.add(summary)
		return nil
	})
	stats := c.stats()
	stats.Duration = time.Since(start)
	return stats, err
}

func (w *Writer) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var combined error
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		combined = multierr.Append(combined, err)
	}
	return combined
}

// Run validates cfg, opens a client with dial, writes the records and closes
// the client on all paths. An invalid config never reaches the dialer.
func Run(ctx context.Context, cfg Config, dial graph.Dialer, opts Options, records []*record.Record, logger *slog.Logger) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}

	logger = logger.With("component", "sink", "run", uuid.NewString(), "connection", cfg.ConnectionConfig)

	client, err := dial(ctx, graph.OptionsFor(cfg.ConnectionConfig, opts.Scheme, opts.Database, opts.MaxConnections))
	if err != nil {
		return Stats{}, fmt.Errorf("connect to %s: %w", cfg.BoltURI(opts.Scheme), err)
	}
	defer func() {
		if cerr := client.Close(context.Background()); cerr != nil {
			logger.Warn("closing graph client failed", "error", cerr)
		}
	}()

	stats, err := NewWriter(cfg, client, opts.Workers, logger).Write(ctx, records)
	if err != nil {
		logger.Error("write failed", "error", err, "written", stats.Records, "failed", len(multierr.Errors(err)))
		return stats, err
	}
	logger.Info("write complete",
		"records", stats.Records,
		"nodesCreated", stats.NodesCreated,
		"relationshipsCreated", stats.RelationshipsCreated,
		"propertiesSet", stats.PropertiesSet,
		"duration", stats.Duration.String(),
	)
	return stats, nil
}
