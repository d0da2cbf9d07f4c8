package record

import (
	"fmt"
	"time"
)

// FieldType names the logical type of a schema field.
type FieldType string

const (
	TypeLong      FieldType = "long"
	TypeDouble    FieldType = "double"
	TypeString    FieldType = "string"
	TypeBoolean   FieldType = "boolean"
	TypeTimestamp FieldType = "timestamp"
	TypeArray     FieldType = "array"
	TypeBytes     FieldType = "bytes"
	TypeMap       FieldType = "map"
	// TypeObject is a graph value whose shape (bytes or map) is only known
	// per value.
	TypeObject FieldType = "object"
	// TypeAny accepts any scalar; used when a column was null during inference.
	TypeAny FieldType = "any"
)

// Field is one named column of a schema.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Nullable bool      `json:"nullable"`
}

// Schema is an ordered list of fields.
type Schema struct {
	Fields []Field `json:"fields"`
}

// NewSchema builds a schema from fields, rejecting duplicate names.
func NewSchema(fields ...Field) (Schema, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("schema field name is required")
		}
		if _, dup := seen[f.Name]; dup {
			return Schema{}, fmt.Errorf("duplicate schema field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return Schema{Fields: append([]Field(nil), fields...)}, nil
}

// Index returns the position of the named field, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Names lists field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// TypeOfNative reports the field type of a native Go value.
func TypeOfNative(v any) FieldType {
	switch v.(type) {
	case nil:
		return TypeAny
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return TypeLong
	case float32, float64:
		return TypeDouble
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeTimestamp
	case []any:
		return TypeArray
	case []byte:
		return TypeBytes
	case map[string]any:
		return TypeMap
	default:
		return TypeAny
	}
}
