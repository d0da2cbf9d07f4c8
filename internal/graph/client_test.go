package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
)

func TestOptionsFor(t *testing.T) {
	conn := plugin.ConnectionConfig{Host: "db", Port: 7687, Username: "neo4j", Password: "pw"}

	opts := OptionsFor(conn, "neo4j", "movies", 5)
	assert.Equal(t, Options{
		URI:            "neo4j://db:7687",
		Database:       "movies",
		Username:       "neo4j",
		Password:       "pw",
		MaxConnections: 5,
	}, opts)
}

func TestNewNeo4jClientRequiresURI(t *testing.T) {
	_, err := NewNeo4jClient(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrMissingURI)
}

func TestRowGet(t *testing.T) {
	row := Row{Keys: []string{"a", "b"}, Values: []any{1, "two"}}

	v, ok := row.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = row.Get("c")
	assert.False(t, ok)
}

func TestMemoryClientRead(t *testing.T) {
	mem := NewMemoryClient()
	mem.PushReadResult(Row{Keys: []string{"n"}, Values: []any{int64(1)}}, Row{Keys: []string{"n"}, Values: []any{int64(2)}})

	var seen []any
	err := mem.Read(context.Background(), "MATCH (n) RETURN n", map[string]any{"x": 1}, func(r Row) error {
		seen = append(seen, r.Values[0])
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, seen)

	calls := mem.ReadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].Params["x"])
}

func TestMemoryClientReadStopsOnCallbackError(t *testing.T) {
	mem := NewMemoryClient()
	mem.PushReadResult(Row{Values: []any{1}}, Row{Values: []any{2}})

	boom := errors.New("boom")
	count := 0
	err := mem.Read(context.Background(), "q", nil, func(Row) error {
		count++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count)
}

func TestMemoryClientDialerAndClose(t *testing.T) {
	mem := NewMemoryClient().WithWriteSummary(WriteSummary{NodesCreated: 1})

	client, err := mem.Dialer()(context.Background(), Options{})
	require.NoError(t, err)
	summary, err := client.Write(context.Background(), "CREATE (n)", nil)
	require.NoError(t, err)
	require.NoError(t, client.Close(context.Background()))

	assert.Equal(t, 1, summary.NodesCreated)
	assert.Equal(t, 1, mem.Dials())
	assert.Equal(t, 1, mem.Closed())
	assert.Len(t, mem.WriteCalls(), 1)
}
