package source

import (
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/vanshika/neo4j-plugin/internal/graph"
	"github.com/vanshika/neo4j-plugin/internal/plugin"
	"github.com/vanshika/neo4j-plugin/internal/record"
)

// ColumnType is the type the driver adapter reports for a column value.
// ColumnObject is the generic code used for graph-shaped values whose real
// shape is only known by looking at the value.
type ColumnType int

const (
	ColumnNull ColumnType = iota
	ColumnInteger
	ColumnFloat
	ColumnString
	ColumnBoolean
	ColumnTemporal
	ColumnList
	ColumnObject
)

func (t ColumnType) String() string {
	switch t {
	case ColumnNull:
		return "null"
	case ColumnInteger:
		return "integer"
	case ColumnFloat:
		return "float"
	case ColumnString:
		return "string"
	case ColumnBoolean:
		return "boolean"
	case ColumnTemporal:
		return "temporal"
	case ColumnList:
		return "list"
	default:
		return "object"
	}
}

// ColumnTypeOf classifies a raw driver value.
func ColumnTypeOf(v any) ColumnType {
	switch v.(type) {
	case nil:
		return ColumnNull
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return ColumnInteger
	case float32, float64:
		return ColumnFloat
	case string, dbtype.Duration:
		return ColumnString
	case bool:
		return ColumnBoolean
	case time.Time, dbtype.Date, dbtype.LocalTime, dbtype.LocalDateTime, dbtype.Time:
		return ColumnTemporal
	case []any:
		return ColumnList
	default:
		return ColumnObject
	}
}

var (
	errTypeMismatch = errors.New("value does not match field type")
	errNotNullable  = errors.New("null value in non-nullable field")
	errNotMapping   = errors.New("object value is neither bytes nor a map")
)

// InferSchema derives one record schema from a sample of result rows. Column
// order follows first appearance. A column that is null in one row takes its
// type from the others, integers mixed with floats widen to double, and any
// other disagreement falls back to any. Every field is nullable because graph
// properties are optional.
func InferSchema(rows ...graph.Row) (record.Schema, error) {
	var (
		names []string
		types = map[string]record.FieldType{}
		seen  = map[string]bool{}
	)
	for _, row := range rows {
		for i, key := range row.Keys {
			if !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
			var raw any
			if i < len(row.Values) {
				raw = row.Values[i]
			}
			if ColumnTypeOf(raw) == ColumnNull {
				continue
			}
			types[key] = mergeFieldType(types[key], fieldTypeFor(ColumnTypeOf(raw)))
		}
	}

	fields := make([]record.Field, len(names))
	for i, name := range names {
		ft, ok := types[name]
		if !ok {
			ft = record.TypeAny
		}
		fields[i] = record.Field{Name: name, Type: ft, Nullable: true}
	}
	return record.NewSchema(fields...)
}

func mergeFieldType(have, next record.FieldType) record.FieldType {
	switch {
	case have == "" || have == next:
		return next
	case isNumeric(have) && isNumeric(next):
		return record.TypeDouble
	default:
		return record.TypeAny
	}
}

func isNumeric(ft record.FieldType) bool {
	return ft == record.TypeLong || ft == record.TypeDouble
}

func fieldTypeFor(t ColumnType) record.FieldType {
	switch t {
	case ColumnInteger:
		return record.TypeLong
	case ColumnFloat:
		return record.TypeDouble
	case ColumnString:
		return record.TypeString
	case ColumnBoolean:
		return record.TypeBoolean
	case ColumnTemporal:
		return record.TypeTimestamp
	case ColumnList:
		return record.TypeArray
	case ColumnObject:
		return record.TypeObject
	default:
		return record.TypeAny
	}
}

// MapRow maps one result row onto schema. Columns missing from the row are
// null. The first field that cannot be mapped fails the row with a
// *plugin.RowMappingError.
func MapRow(schema record.Schema, row graph.Row) (*record.Record, error) {
	b := record.NewBuilder(schema)
	for _, field := range schema.Fields {
		raw, _ := row.Get(field.Name)
		value, err := mapField(field, raw)
		if err != nil {
			return nil, &plugin.RowMappingError{Field: field.Name, Value: raw, Cause: err}
		}
		if err := b.Set(field.Name, value); err != nil {
			return nil, &plugin.RowMappingError{Field: field.Name, Value: raw, Cause: err}
		}
	}
	return b.Build()
}

func mapField(field record.Field, raw any) (record.Value, error) {
	switch ColumnTypeOf(raw) {
	case ColumnNull:
		if !field.Nullable {
			return nil, errNotNullable
		}
		return nil, nil
	case ColumnObject:
		return objectValue(field.Type, raw)
	default:
		v, err := coerceScalar(field.Type, raw)
		if err != nil {
			return nil, err
		}
		return record.Scalar{V: v}, nil
	}
}

// objectValue resolves a generic object value: byte payloads are copied
// through, everything else must be convertible to a string-keyed mapping.
func objectValue(ft record.FieldType, raw any) (record.Value, error) {
	if b, ok := raw.([]byte); ok {
		switch ft {
		case record.TypeObject, record.TypeBytes, record.TypeAny:
			return record.Binary(append([]byte(nil), b...)), nil
		default:
			return nil, errTypeMismatch
		}
	}

	switch ft {
	case record.TypeObject, record.TypeMap, record.TypeAny:
	default:
		return nil, errTypeMismatch
	}
	m, err := toMapping(raw)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// toMapping flattens a graph value into a string-keyed mapping. Nodes and
// relationships carry their metadata under reserved keys (_id, _labels,
// _type, _startId, _endId); a user property with one of those names is
// shadowed by the metadata.
func toMapping(raw any) (record.Mapping, error) {
	switch v := raw.(type) {
	case map[string]any:
		out := make(record.Mapping, len(v))
		for k, val := range v {
			out[k] = normalize(val)
		}
		return out, nil
	case dbtype.Node:
		out := make(record.Mapping, len(v.Props)+2)
		for k, val := range v.Props {
			out[k] = normalize(val)
		}
		out["_id"] = v.ElementId
		out["_labels"] = append([]string(nil), v.Labels...)
		return out, nil
	case dbtype.Relationship:
		out := make(record.Mapping, len(v.Props)+4)
		for k, val := range v.Props {
			out[k] = normalize(val)
		}
		out["_id"] = v.ElementId
		out["_type"] = v.Type
		out["_startId"] = v.StartElementId
		out["_endId"] = v.EndElementId
		return out, nil
	case dbtype.Path:
		nodes := make([]any, len(v.Nodes))
		for i, n := range v.Nodes {
			m, _ := toMapping(n)
			nodes[i] = map[string]any(m)
		}
		rels := make([]any, len(v.Relationships))
		for i, r := range v.Relationships {
			m, _ := toMapping(r)
			rels[i] = map[string]any(m)
		}
		return record.Mapping{"nodes": nodes, "relationships": rels}, nil
	case dbtype.Point2D:
		return record.Mapping{"srid": int64(v.SpatialRefId), "x": v.X, "y": v.Y}, nil
	case dbtype.Point3D:
		return record.Mapping{"srid": int64(v.SpatialRefId), "x": v.X, "y": v.Y, "z": v.Z}, nil
	default:
		return nil, fmt.Errorf("%w: %T", errNotMapping, raw)
	}
}

func coerceScalar(ft record.FieldType, raw any) (any, error) {
	switch ft {
	case record.TypeLong:
		if n, ok := asInt64(raw); ok {
			return n, nil
		}
	case record.TypeDouble:
		if f, ok := asFloat64(raw); ok {
			return f, nil
		}
		if n, ok := asInt64(raw); ok {
			return float64(n), nil
		}
	case record.TypeString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case dbtype.Duration:
			return v.String(), nil
		}
	case record.TypeBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case record.TypeTimestamp:
		if ts, ok := asTime(raw); ok {
			return ts, nil
		}
	case record.TypeArray:
		if list, ok := raw.([]any); ok {
			return normalize(list), nil
		}
	case record.TypeAny:
		return normalize(raw), nil
	}
	return nil, fmt.Errorf("%w: %s from %s", errTypeMismatch, ft, ColumnTypeOf(raw))
}

// normalize converts nested driver values into plain Go values.
func normalize(v any) any {
	if n, ok := asInt64(v); ok {
		return n
	}
	if f, ok := asFloat64(v); ok {
		return f
	}
	if ts, ok := asTime(v); ok {
		return ts
	}
	switch val := v.(type) {
	case dbtype.Duration:
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case nil, string, bool, []byte:
		return val
	}
	if m, err := toMapping(v); err == nil {
		return map[string]any(m)
	}
	return v
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case dbtype.Date:
		return t.Time(), true
	case dbtype.LocalTime:
		return t.Time(), true
	case dbtype.LocalDateTime:
		return t.Time(), true
	case dbtype.Time:
		return t.Time(), true
	}
	return time.Time{}, false
}
