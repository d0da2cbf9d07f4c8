package graph

import (
	"context"
	"errors"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
)

// Client is the cursor-style contract the plugin needs from the graph
// database. Each Read or Write call runs in its own session, so concurrent
// calls never share a connection or a cursor.
type Client interface {
	// Read streams the rows of a read-only query to fn. Iteration stops at the
	// first error returned by fn.
	Read(ctx context.Context, cypher string, params map[string]any, fn RowFunc) error
	Write(ctx context.Context, cypher string, params map[string]any) (WriteSummary, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Row is one result row: column keys and the raw driver values in the same
// order.
type Row struct {
	Keys   []string
	Values []any
}

// Get returns the value of the named column.
func (r Row) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return nil, false
}

// RowFunc receives rows as they are read.
type RowFunc func(Row) error

// WriteSummary counts the updates performed by a write query.
type WriteSummary struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// OptionsFor derives driver options from plugin connection properties.
func OptionsFor(conn plugin.ConnectionConfig, scheme, database string, maxConnections int) Options {
	return Options{
		URI:            conn.BoltURI(scheme),
		Database:       database,
		Username:       conn.Username,
		Password:       conn.Password,
		MaxConnections: maxConnections,
	}
}

// Dialer opens a client. NewNeo4jClient is the production dialer.
type Dialer func(ctx context.Context, opts Options) (Client, error)

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
