// Package sink implements the write side of the plugin: each incoming record
// runs the configured output query with the record fields as parameters.
package sink

import (
	"fmt"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
)

// WriteKeywords are the keywords of which an output query needs at least one;
// a query without any of them cannot write anything.
var WriteKeywords = plugin.Keywords{"CREATE", "MERGE", "SET", "DELETE"}

// Config is the sink configuration.
type Config struct {
	plugin.ConnectionConfig

	OutputQuery string
}

// FromProperties builds a sink config from raw properties.
func FromProperties(props plugin.Properties, collector *plugin.FailureCollector) Config {
	return Config{
		ConnectionConfig: props.Connection(collector),
		OutputQuery:      props.Get(plugin.PropertyOutputQuery),
	}
}

// WithOutputQuery returns a copy with the output query replaced.
func (c Config) WithOutputQuery(query string) Config {
	c.OutputQuery = query
	return c
}

// Validate returns the first configuration failure, or nil.
func (c Config) Validate() error {
	collector := plugin.NewFailureCollector()
	c.Collect(collector)
	return collector.First()
}

// Collect reports empty connection properties, an out-of-range port and an
// output query that cannot write.
func (c Config) Collect(collector *plugin.FailureCollector) {
	c.CollectConnection(collector)

	switch {
	case c.OutputQuery == "":
		collector.AddFailure(plugin.PropertyOutputQuery, "value is required")
	case !WriteKeywords.AnyIn(c.OutputQuery):
		collector.AddFailure(plugin.PropertyOutputQuery,
			fmt.Sprintf("The output request must contain at least one of the following keywords: '%s'", WriteKeywords))
	}
}
