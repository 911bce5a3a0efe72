package core

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// Configuration keys.
const (
	KeySourceName      = "source_name"
	KeyUsername        = "username"
	KeyPassword        = "password"
	KeyAttributeString = "attribute_string"
)

// Config holds connection options. Exactly one of SourceName and
// AttributeString must be set.
type Config struct {
	SourceName      string `mapstructure:"source_name"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	AttributeString string `mapstructure:"attribute_string"`
}

// DecodeConfig builds a Config from a loosely typed option map.
// Scalar values are coerced to strings, so a numeric password is accepted.
func DecodeConfig(options map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(options); err != nil {
		return Config{}, &ConfigurationError{Reason: fmt.Sprintf("invalid connection options: %v", err)}
	}
	return cfg, nil
}

// HasSourceName reports whether the named-source shape is present.
func (c Config) HasSourceName() bool {
	return c.SourceName != ""
}

// HasAttributeString reports whether the attribute-string shape is present.
func (c Config) HasAttributeString() bool {
	return c.AttributeString != ""
}

// Validate checks that exactly one configuration shape is present.
func (c Config) Validate() error {
	switch {
	case c.HasSourceName() && c.HasAttributeString():
		return &ConfigurationError{Reason: "both a data source name (source_name) and an attribute string (attribute_string) were specified"}
	case !c.HasSourceName() && !c.HasAttributeString():
		return &ConfigurationError{Reason: "no data source name (source_name) or attribute string (attribute_string) specified"}
	}
	return nil
}

// ResolvedConfig is the configuration produced by a successful connection.
// It is sufficient to open an equivalent session again without the raw input.
type ResolvedConfig struct {
	// SourceName is set for named-source connections.
	SourceName string
	Username   *string
	Password   *string

	// Driver is set for attribute-string connections.
	Driver *odbc.Driver
}

// IsSource reports whether the configuration uses a named data source.
func (r ResolvedConfig) IsSource() bool {
	return r.Driver == nil
}
