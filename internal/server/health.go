package server

import (
	"context"
	"fmt"

	"github.com/vanshika/neo4j-plugin/internal/graph"
	"github.com/vanshika/neo4j-plugin/internal/plugin"
)

// ConnectionProber checks that connection properties reach a database.
type ConnectionProber interface {
	Probe(ctx context.Context, conn plugin.ConnectionConfig) error
}

// GraphProber dials the database, verifies connectivity and closes again.
type GraphProber struct {
	Dial           graph.Dialer
	Scheme         string
	Database       string
	MaxConnections int
}

// Probe implements the ConnectionProber interface.
func (p GraphProber) Probe(ctx context.Context, conn plugin.ConnectionConfig) error {
	client, err := p.Dial(ctx, graph.OptionsFor(conn, p.Scheme, p.Database, p.MaxConnections))
	if err != nil {
		return fmt.Errorf("connect to %s: %w", conn.BoltURI(p.Scheme), err)
	}
	defer client.Close(context.Background())
	return client.VerifyConnectivity(ctx)
}
