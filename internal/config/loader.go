package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "leapodbc.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "leapodbc.yml"

// EnvPrefix is the prefix of configuration environment variables.
const EnvPrefix = "LEAPODBC_"

// flagKeys maps flags whose config key differs from the flag name.
var flagKeys = map[string]string{
	"source":     "connection.source",
	"username":   "connection.username",
	"password":   "connection.password",
	"attributes": "connection.attribute_string",
}

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load loads configuration from file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// An empty cfgFile looks for leapodbc.yaml in the working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"sources_file":   DefaultSourcesFile,
		"migrations_dir": DefaultMigrationsDir,
		"log_level":      DefaultLogLevel,
		"output":         DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	projectRoot := cwd
	if cfgFile == "" {
		cfgFile = FindConfigFile(cwd)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		if abs, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Environment variables: LEAPODBC_CONNECTION__SOURCE -> connection.source
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	// 6. Profile selection. A connection shape given by flags replaces the
	// file's and the profile's.
	if cfg.Profile != "" {
		profile, ok := cfg.Profiles[cfg.Profile]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q\nAvailable profiles: %v\nHint: Define it under profiles in %s", cfg.Profile, profileNames(cfg.Profiles), ConfigFileName)
		}
		cfg.Connection = MergeConnection(cfg.Connection, profile)
	}
	cfg.Connection = MergeConnection(cfg.Connection, flagConnection(flags))

	expandConnectionEnvVars(&cfg.Connection)
	cfg.SourcesFile = resolvePathRelativeTo(cfg.SourcesFile, projectRoot)
	cfg.MigrationsDir = resolvePathRelativeTo(cfg.MigrationsDir, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the non-connection options. Connection shapes are checked
// when connecting.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) && c.OutputFormat != "markdown" {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	return nil
}

// ParseLogLevel parses a level name such as "debug" or "warn".
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func flagConnection(flags *pflag.FlagSet) ConnectionConfig {
	var c ConnectionConfig
	if flags == nil {
		return c
	}
	get := func(name string) string {
		if f := flags.Lookup(name); f != nil && f.Changed {
			return f.Value.String()
		}
		return ""
	}
	c.Source = get("source")
	c.Username = get("username")
	c.Password = get("password")
	c.AttributeString = get("attributes")
	return c
}

func profileNames(profiles map[string]ConnectionConfig) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

func expandConnectionEnvVars(c *ConnectionConfig) {
	c.Source = expandEnvVars(c.Source)
	c.Username = expandEnvVars(c.Username)
	c.Password = expandEnvVars(c.Password)
	c.AttributeString = expandEnvVars(c.AttributeString)
	for k, v := range c.Attributes {
		c.Attributes[k] = expandEnvVars(v)
	}
}

type loggerKey struct{}

type configKey struct{}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any {
	return loggerKey{}
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the configuration from the context, or a default
// configuration if none was stored.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return &Config{
		SourcesFile:   DefaultSourcesFile,
		MigrationsDir: DefaultMigrationsDir,
		LogLevel:      DefaultLogLevel,
		OutputFormat:  DefaultOutput,
	}
}
