// Package source implements the read side of the plugin: validating the input
// query, planning splits, and mapping result rows into records.
package source

import (
	"fmt"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
)

var (
	// ForbiddenKeywords would make the input query mutate the graph.
	ForbiddenKeywords = plugin.Keywords{"UNWIND", "CREATE", "DELETE", "SET", "REMOVE", "MERGE"}
	// RequiredKeywords must all appear in the input query.
	RequiredKeywords = plugin.Keywords{"MATCH", "RETURN"}
)

// Config is the source configuration. It is a value; the With helpers return
// modified copies.
type Config struct {
	plugin.ConnectionConfig

	InputQuery string
	// SplitNum is nil when the property is unset, which means one split.
	SplitNum *int
	OrderBy  string
}

// FromProperties builds a source config from raw properties. Unparsable
// numbers are reported to the collector; query rules are not checked here.
func FromProperties(props plugin.Properties, collector *plugin.FailureCollector) Config {
	cfg := Config{
		ConnectionConfig: props.Connection(collector),
		InputQuery:       props.Get(plugin.PropertyInputQuery),
		OrderBy:          props.Get(plugin.PropertyOrderBy),
	}
	splits, ok, err := props.Int(plugin.PropertySplitNum)
	switch {
	case err != nil:
		collector.AddFailure(plugin.PropertySplitNum, err.Error())
	case ok:
		cfg.SplitNum = &splits
	}
	return cfg
}

// SplitCount returns the configured number of splits, defaulting to 1.
func (c Config) SplitCount() int {
	if c.SplitNum == nil {
		return 1
	}
	return *c.SplitNum
}

// WithInputQuery returns a copy with the input query replaced.
func (c Config) WithInputQuery(query string) Config {
	c.InputQuery = query
	return c
}

// WithSplitNum returns a copy with the split count replaced.
func (c Config) WithSplitNum(n int) Config {
	c.SplitNum = &n
	return c
}

// WithOrderBy returns a copy with the order-by field replaced.
func (c Config) WithOrderBy(field string) Config {
	c.OrderBy = field
	return c
}

// Validate checks the input query and the split settings and returns the
// first violation as a *plugin.ConfigurationError. It has no side effects.
func (c Config) Validate() error {
	collector := plugin.NewFailureCollector()
	c.Collect(collector)
	return collector.First()
}

// Collect reports every violated rule to the collector.
func (c Config) Collect(collector *plugin.FailureCollector) {
	if ForbiddenKeywords.AnyIn(c.InputQuery) {
		collector.AddFailure(plugin.PropertyInputQuery,
			fmt.Sprintf("The input request must not contain any of the following keywords: '%s'", ForbiddenKeywords))
	}
	if !RequiredKeywords.AllIn(c.InputQuery) {
		collector.AddFailure(plugin.PropertyInputQuery,
			fmt.Sprintf("The input request must contain following keywords: '%s'", RequiredKeywords))
	}
	if c.SplitCount() <= 0 {
		collector.AddFailure(plugin.PropertySplitNum, "Splits number must be greater than 0.")
	}
	if c.SplitCount() > 1 && c.OrderBy == "" {
		collector.AddFailure(plugin.PropertyOrderBy, "Order by field required if Splits number greater than 1.")
	}
}
