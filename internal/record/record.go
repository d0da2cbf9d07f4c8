package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Record is an immutable row conforming to a schema.
type Record struct {
	schema Schema
	values []Value
}

// Schema returns the record schema.
func (r *Record) Schema() Schema {
	return r.schema
}

// Get returns the value of the named field; nil when null or unknown.
func (r *Record) Get(name string) Value {
	idx := r.schema.Index(name)
	if idx < 0 {
		return nil
	}
	return r.values[idx]
}

// Native returns the record as a map of native values, suitable as query
// parameters.
func (r *Record) Native() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, f := range r.schema.Fields {
		out[f.Name] = Native(r.values[i])
	}
	return out
}

// MarshalJSON encodes the record as an object keyed by field name. Binary
// values become base64 strings and timestamps RFC 3339.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.values))
	for i, f := range r.schema.Fields {
		v := Native(r.values[i])
		if ts, ok := v.(time.Time); ok {
			v = ts.Format(time.RFC3339Nano)
		}
		out[f.Name] = v
	}
	return json.Marshal(out)
}

// Builder assembles a Record field by field.
type Builder struct {
	schema Schema
	values []Value
	set    []bool
}

// NewBuilder starts a record for schema.
func NewBuilder(schema Schema) *Builder {
	return &Builder{
		schema: schema,
		values: make([]Value, len(schema.Fields)),
		set:    make([]bool, len(schema.Fields)),
	}
}

// Set assigns a field. A nil value marks the field null.
func (b *Builder) Set(name string, v Value) error {
	idx := b.schema.Index(name)
	if idx < 0 {
		return fmt.Errorf("field %q is not in the schema", name)
	}
	if v == nil && !b.schema.Fields[idx].Nullable {
		return fmt.Errorf("field %q is not nullable", name)
	}
	b.values[idx] = v
	b.set[idx] = true
	return nil
}

// Build returns the record; every non-nullable field must have been set.
func (b *Builder) Build() (*Record, error) {
	for i, f := range b.schema.Fields {
		if !b.set[i] && !f.Nullable {
			return nil, fmt.Errorf("field %q is required", f.Name)
		}
	}
	return &Record{schema: b.schema, values: append([]Value(nil), b.values...)}, nil
}

// FromNative builds a record from a map of native values, as decoded from an
// upstream stage. Field order is alphabetical; every field is nullable.
func FromNative(m map[string]any) (*Record, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Type: TypeOfNative(m[name]), Nullable: true}
	}
	schema, err := NewSchema(fields...)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(schema)
	for _, name := range names {
		if err := b.Set(name, wrapNative(m[name])); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func wrapNative(v any) Value {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return Binary(val)
	case map[string]any:
		return Mapping(val)
	default:
		return Scalar{V: val}
	}
}
