package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
	"github.com/vanshika/neo4j-plugin/internal/record"
	"github.com/vanshika/neo4j-plugin/internal/source"
)

func TestLoadRecordsKeepsIntegers(t *testing.T) {
	input := strings.NewReader(`{"name":"alice","age":42,"score":1.5,"tags":["a"],"meta":{"n":7}}

{"name":"bob","age":null}
`)
	records, err := loadRecords(input)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0].Native()
	assert.Equal(t, int64(42), first["age"])
	assert.Equal(t, 1.5, first["score"])
	assert.Equal(t, []any{"a"}, first["tags"])
	assert.Equal(t, map[string]any{"n": int64(7)}, first["meta"])

	second := records[1].Native()
	assert.Equal(t, "bob", second["name"])
	assert.Nil(t, second["age"])
}

func TestLoadRecordsReportsLine(t *testing.T) {
	_, err := loadRecords(strings.NewReader("{\"a\":1}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestJSONLinesEmitterWritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	emitter := newJSONLinesEmitter(&buf)

	rec, err := record.FromNative(map[string]any{"id": int64(1)})
	require.NoError(t, err)
	require.NoError(t, emitter.Emit(context.Background(), source.Split{}, rec))
	require.NoError(t, emitter.Emit(context.Background(), source.Split{}, rec))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":1}`, lines[0])
}

func TestReportFailures(t *testing.T) {
	collector := plugin.NewFailureCollector()
	var buf bytes.Buffer
	require.NoError(t, reportFailures(&buf, collector))
	assert.Empty(t, buf.String())

	collector.AddFailure(plugin.PropertySplitNum, "must be positive")
	err := reportFailures(&buf, collector)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "must be positive")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
neo4jHost: localhost
neo4jPort: 7687
username: neo4j
password: secret
inputQuery: CREATE (n) RETURN n
splitNum: 1
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"validate", "source", "-p", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "CREATE")
}
