package plugin

import (
	"fmt"

	"go.uber.org/multierr"
)

// ConfigurationError reports a property value that makes the plugin
// configuration unusable. It is raised before any connection is opened.
type ConfigurationError struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

func (e *ConfigurationError) Error() string {
	if e.Property == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Property, e.Message)
}

// RowMappingError reports a driver value that could not be coerced into the
// declared record field. It aborts the read of the current split.
type RowMappingError struct {
	Field string
	Value any
	Cause error
}

func (e *RowMappingError) Error() string {
	return fmt.Sprintf("map field %q from %T: %v", e.Field, e.Value, e.Cause)
}

func (e *RowMappingError) Unwrap() error {
	return e.Cause
}

// FailureCollector gathers configuration failures so the host can report all
// of them at once instead of stopping at the first.
type FailureCollector struct {
	failures []*ConfigurationError
}

// NewFailureCollector returns an empty collector.
func NewFailureCollector() *FailureCollector {
	return &FailureCollector{}
}

// AddFailure records a failure against a property and returns it.
func (c *FailureCollector) AddFailure(property, message string) *ConfigurationError {
	failure := &ConfigurationError{Property: property, Message: message}
	c.failures = append(c.failures, failure)
	return failure
}

// Failures returns a snapshot of the collected failures in report order.
func (c *FailureCollector) Failures() []*ConfigurationError {
	return append([]*ConfigurationError(nil), c.failures...)
}

// First returns the earliest failure, or nil.
func (c *FailureCollector) First() error {
	if len(c.failures) == 0 {
		return nil
	}
	return c.failures[0]
}

// Err combines all failures into a single error, or nil when there are none.
func (c *FailureCollector) Err() error {
	var err error
	for _, failure := range c.failures {
		err = multierr.Append(err, failure)
	}
	return err
}
