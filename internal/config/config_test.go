package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "GRAPH_URI_SCHEME", "GRAPH_DATABASE", "SINK_WORKERS", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, "bolt", cfg.Graph.Scheme)
	assert.Equal(t, defaultGraphMaxSessions, cfg.Graph.MaxConnections)
	assert.Equal(t, defaultSinkWorkers, cfg.Sink.Workers)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("GRAPH_URI_SCHEME", "neo4j+s")
	t.Setenv("GRAPH_DATABASE", "movies")
	t.Setenv("SINK_WORKERS", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "neo4j+s", cfg.Graph.Scheme)
	assert.Equal(t, "movies", cfg.Graph.Database)
	assert.Equal(t, 12, cfg.Sink.Workers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "70000")
		_, err := Load()
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "")
		t.Setenv("SERVER_IDLE_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "SERVER_IDLE_TIMEOUT")
	})

	t.Run("unknown scheme", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "")
		t.Setenv("SERVER_IDLE_TIMEOUT", "")
		t.Setenv("GRAPH_URI_SCHEME", "jdbc")
		_, err := Load()
		assert.ErrorContains(t, err, "GRAPH_URI_SCHEME")
	})
}
