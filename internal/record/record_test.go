package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) Schema {
	t.Helper()
	schema, err := NewSchema(
		Field{Name: "id", Type: TypeLong},
		Field{Name: "payload", Type: TypeObject, Nullable: true},
		Field{Name: "seen", Type: TypeTimestamp, Nullable: true},
	)
	require.NoError(t, err)
	return schema
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	_, err := NewSchema(Field{Name: "a"}, Field{Name: "a"})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewSchema(Field{Name: ""})
	assert.Error(t, err)
}

func TestBuilder(t *testing.T) {
	schema := testSchema(t)

	t.Run("required field missing", func(t *testing.T) {
		_, err := NewBuilder(schema).Build()
		assert.ErrorContains(t, err, `"id" is required`)
	})

	t.Run("null into non-nullable", func(t *testing.T) {
		err := NewBuilder(schema).Set("id", nil)
		assert.ErrorContains(t, err, "not nullable")
	})

	t.Run("unknown field", func(t *testing.T) {
		err := NewBuilder(schema).Set("missing", Scalar{V: 1})
		assert.Error(t, err)
	})

	t.Run("complete", func(t *testing.T) {
		b := NewBuilder(schema)
		require.NoError(t, b.Set("id", Scalar{V: int64(7)}))
		require.NoError(t, b.Set("payload", Mapping{"name": "Keanu"}))

		rec, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, Scalar{V: int64(7)}, rec.Get("id"))
		assert.Nil(t, rec.Get("seen"))
		assert.Equal(t, map[string]any{
			"id":      int64(7),
			"payload": map[string]any{"name": "Keanu"},
			"seen":    nil,
		}, rec.Native())
	})
}

func TestMarshalJSON(t *testing.T) {
	schema := testSchema(t)
	b := NewBuilder(schema)
	require.NoError(t, b.Set("id", Scalar{V: int64(1)}))
	require.NoError(t, b.Set("payload", Binary{0xCA, 0xFE}))
	require.NoError(t, b.Set("seen", Scalar{V: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}))
	rec, err := b.Build()
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"payload":"yv4=","seen":"2024-05-01T12:00:00Z"}`, string(data))
}

func TestFromNative(t *testing.T) {
	rec, err := FromNative(map[string]any{
		"name":  "Alice",
		"age":   int64(30),
		"props": map[string]any{"k": "v"},
		"blob":  []byte{1, 2},
		"gone":  nil,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "blob", "gone", "name", "props"}, rec.Schema().Names())
	assert.Equal(t, Binary{1, 2}, rec.Get("blob"))
	assert.Equal(t, Mapping{"k": "v"}, rec.Get("props"))
	assert.Equal(t, Scalar{V: "Alice"}, rec.Get("name"))
	assert.Nil(t, rec.Get("gone"))
	assert.Equal(t, TypeBytes, rec.Schema().Fields[1].Type)
}

func TestNative(t *testing.T) {
	assert.Nil(t, Native(nil))
	assert.Equal(t, []byte{1}, Native(Binary{1}))
	assert.Equal(t, map[string]any{"a": 1}, Native(Mapping{"a": 1}))
	assert.Equal(t, 3.5, Native(Scalar{V: 3.5}))
}
