package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Properties is the raw key/value configuration handed over by the host.
type Properties map[string]string

// Get returns the trimmed value of a property.
func (p Properties) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// Int parses an integer property. ok is false when the property is unset.
func (p Properties) Int(key string) (value int, ok bool, err error) {
	raw := p.Get(key)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%q is not an integer", raw)
	}
	return value, true, nil
}

// Connection builds the connection settings, reporting an unparsable port to
// the collector.
func (p Properties) Connection(collector *FailureCollector) ConnectionConfig {
	cfg := ConnectionConfig{
		ReferenceName: p.Get(PropertyReferenceName),
		Host:          p.Get(PropertyHost),
		Username:      p.Get(PropertyUsername),
		Password:      p[PropertyPassword],
	}
	port, _, err := p.Int(PropertyPort)
	if err != nil {
		collector.AddFailure(PropertyPort, err.Error())
	}
	cfg.Port = port
	return cfg
}

// LoadProperties reads a YAML document of property keys from path.
func LoadProperties(path string) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties %s: %w", path, err)
	}
	props, err := ParseProperties(data)
	if err != nil {
		return nil, fmt.Errorf("parse properties %s: %w", path, err)
	}
	return props, nil
}

// ParseProperties decodes a flat YAML mapping. ${VAR} references in string
// values are expanded from the environment, so secrets can be referenced
// rather than written into the file.
func ParseProperties(data []byte) (Properties, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	props, err := NewProperties(raw)
	if err != nil {
		return nil, err
	}
	for key, value := range props {
		props[key] = os.ExpandEnv(value)
	}
	return props, nil
}

// NewProperties stringifies a decoded mapping of scalar values. Null values are
// dropped.
func NewProperties(raw map[string]any) (Properties, error) {
	props := make(Properties, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			props[key] = v
		case map[string]any, []any:
			return nil, fmt.Errorf("property %q must be a scalar", key)
		default:
			props[key] = fmt.Sprint(v)
		}
	}
	return props, nil
}
