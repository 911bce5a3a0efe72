// Package config loads leapodbc configuration.
//
// Values are layered, lowest to highest precedence: built-in defaults, the
// leapodbc.yaml file, LEAPODBC_ environment variables and command-line flags.
// Nested keys are addressed in the environment with a double underscore,
// e.g. LEAPODBC_CONNECTION__PASSWORD.
package config

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/leapodbc/pkg/core"
)

// Config holds all leapodbc configuration options.
type Config struct {
	Connection    ConnectionConfig            `koanf:"connection"`
	Profile       string                      `koanf:"profile"`
	Profiles      map[string]ConnectionConfig `koanf:"profiles"`
	SourcesFile   string                      `koanf:"sources_file"`
	MigrationsDir string                      `koanf:"migrations_dir"`
	LogLevel      string                      `koanf:"log_level"`
	OutputFormat  string                      `koanf:"output"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// ConnectionConfig describes one connection. Either Source or one of
// AttributeString and Attributes is expected.
type ConnectionConfig struct {
	Source          string            `koanf:"source"`
	Username        string            `koanf:"username"`
	Password        string            `koanf:"password"`
	AttributeString string            `koanf:"attribute_string"`
	Attributes      map[string]string `koanf:"attributes"`
}

// Default configuration values.
const (
	DefaultSourcesFile   = "sources.yaml"
	DefaultMigrationsDir = "migrations"
	DefaultLogLevel      = "warn"
	DefaultOutput        = "table"
)

// OutputFormats lists the accepted values of the output option.
var OutputFormats = []string{"table", "json", "csv", "md"}

// Attrs returns the attribute string of the connection. An explicit
// attribute string wins over the attributes map, whose keys are joined in
// sorted order.
func (c ConnectionConfig) Attrs() string {
	if c.AttributeString != "" || len(c.Attributes) == 0 {
		return c.AttributeString
	}
	keys := make([]string, 0, len(c.Attributes))
	for k := range c.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + c.Attributes[k]
	}
	return strings.Join(parts, ";")
}

// Map returns the connection as a core option map (see core.DecodeConfig).
// Unset values are left out.
func (c ConnectionConfig) Map() map[string]any {
	m := make(map[string]any)
	set := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	set(core.KeySourceName, c.Source)
	set(core.KeyUsername, c.Username)
	set(core.KeyPassword, c.Password)
	set(core.KeyAttributeString, c.Attrs())
	return m
}

// CoreConfig decodes the connection into a core.Config.
func (c ConnectionConfig) CoreConfig() (core.Config, error) {
	return core.DecodeConfig(c.Map())
}

// IsZero reports whether no connection value is set.
func (c ConnectionConfig) IsZero() bool {
	return c.Source == "" && c.Username == "" && c.Password == "" && c.Attrs() == ""
}

// MergeConnection merges two connections with override taking precedence.
// A connection shape set in override replaces the shape of base.
func MergeConnection(base, override ConnectionConfig) ConnectionConfig {
	merged := ConnectionConfig{
		Source:          base.Source,
		Username:        base.Username,
		Password:        base.Password,
		AttributeString: base.AttributeString,
	}
	if len(base.Attributes) > 0 {
		merged.Attributes = make(map[string]string, len(base.Attributes))
		for k, v := range base.Attributes {
			merged.Attributes[k] = v
		}
	}

	if override.Source != "" {
		merged.Source = override.Source
		merged.AttributeString = ""
		merged.Attributes = nil
	}
	if override.Attrs() != "" {
		merged.Source = ""
		merged.AttributeString = override.AttributeString
		if len(override.Attributes) > 0 {
			merged.Attributes = make(map[string]string, len(override.Attributes))
			for k, v := range override.Attributes {
				merged.Attributes[k] = v
			}
		} else {
			merged.Attributes = nil
		}
	}
	if override.Username != "" {
		merged.Username = override.Username
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	return merged
}
