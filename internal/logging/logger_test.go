package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vanshika/neo4j-plugin/internal/config"
)

func TestNewRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LoggingConfig{Level: "debug", Format: "json"})

	logger.Info("dialing", "password", "s3cret", "connectionString", "jdbc:neo4j:bolt://h:1/?username=u,password=s3cret", "host", "h")

	out := buf.String()
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, `"host":"h"`)
	assert.Contains(t, out, redacted)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
