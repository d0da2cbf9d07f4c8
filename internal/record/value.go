// Package record is the structured-record model the plugin hands to the host:
// a schema of named, typed fields and rows of tagged values.
package record

// Value is the value of one record field. It is exactly one of Scalar, Binary
// or Mapping; a null field has a nil Value.
type Value interface {
	isValue()
}

// Scalar carries an ordinary typed value: int64, float64, string, bool,
// time.Time or []any.
type Scalar struct {
	V any
}

// Binary carries a raw byte payload copied through verbatim.
type Binary []byte

// Mapping carries a graph-shaped value: a node, relationship, path or map.
type Mapping map[string]any

func (Scalar) isValue()  {}
func (Binary) isValue()  {}
func (Mapping) isValue() {}

// Native unwraps a value into what the driver and encoders accept.
func Native(v Value) any {
	switch val := v.(type) {
	case nil:
		return nil
	case Scalar:
		return val.V
	case Binary:
		return []byte(val)
	case Mapping:
		return map[string]any(val)
	default:
		panic("record: unknown value variant")
	}
}
