package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConnectionConfig holds the connection properties shared by the source and
// the sink. It is a value type; nothing mutates it after construction.
type ConnectionConfig struct {
	ReferenceName string `property:"referenceName" validate:"required"`
	Host          string `property:"neo4jHost" validate:"required"`
	Port          int    `property:"neo4jPort" validate:"min=1,max=65535"`
	Username      string `property:"username" validate:"required"`
	Password      string `property:"password" validate:"required"`
}

// ConnectionString formats the JDBC-style connection string. The password is
// embedded in plaintext: never log the result, use Redacted instead.
func (c ConnectionConfig) ConnectionString() string {
	return fmt.Sprintf(ConnectionStringFormat, c.Host, c.Port, c.Username, c.Password)
}

// Redacted is ConnectionString with the password masked.
func (c ConnectionConfig) Redacted() string {
	return fmt.Sprintf(ConnectionStringFormat, c.Host, c.Port, c.Username, "*****")
}

// BoltURI returns the address for the native driver, e.g. bolt://host:7687.
// Credentials are passed to the driver separately.
func (c ConnectionConfig) BoltURI(scheme string) string {
	if scheme == "" {
		scheme = "bolt"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

// LogValue keeps the password out of structured logs.
func (c ConnectionConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String(PropertyReferenceName, c.ReferenceName),
		slog.String(PropertyHost, c.Host),
		slog.Int(PropertyPort, c.Port),
		slog.String(PropertyUsername, c.Username),
	)
}

var connectionValidator = newConnectionValidator()

func newConnectionValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("property")
	})
	return v
}

// CollectConnection reports empty connection fields and an out-of-range port.
func (c ConnectionConfig) CollectConnection(collector *FailureCollector) {
	err := connectionValidator.Struct(c)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		collector.AddFailure("", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		collector.AddFailure(fe.Field(), describeFieldError(fe))
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "min", "max":
		return fmt.Sprintf("port must be between 1 and 65535 (got: %v)", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", strings.ToLower(fe.Tag()))
	}
}
