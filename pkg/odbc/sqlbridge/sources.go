package sqlbridge

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/xo/dburl"
)

// Source is a named data source.
type Source struct {
	Name        string            `koanf:"-"`
	Description string            `koanf:"description"`
	Driver      string            `koanf:"driver"`
	URL         string            `koanf:"url"`
	Attributes  map[string]string `koanf:"attributes"`
}

// Sources is the registry of named data sources.
type Sources struct {
	entries map[string]Source
}

type sourcesFile struct {
	Sources map[string]Source `koanf:"sources"`
}

// NewSources builds a registry from sources keyed by name.
func NewSources(sources map[string]Source) *Sources {
	s := &Sources{entries: make(map[string]Source, len(sources))}
	for name, src := range sources {
		src.Name = name
		s.entries[name] = src
	}
	return s
}

// LoadSources reads a YAML sources file.
func LoadSources(path string) (*Sources, error) {
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load sources file %s: %w", path, err)
	}

	var f sourcesFile
	if err := k.Unmarshal("", &f); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	s := NewSources(f.Sources)
	for _, src := range s.entries {
		if err := src.validate(); err != nil {
			return nil, fmt.Errorf("invalid source %q in %s: %w", src.Name, path, err)
		}
	}
	return s, nil
}

func (s Source) validate() error {
	switch {
	case s.URL == "" && s.Driver == "":
		return fmt.Errorf("either driver or url is required")
	case s.URL != "" && s.Driver != "":
		return fmt.Errorf("driver and url are mutually exclusive")
	}
	return nil
}

// Lookup finds a source by name, ignoring case when there is no exact match.
func (s *Sources) Lookup(name string) (Source, bool) {
	if s == nil {
		return Source{}, false
	}
	if src, ok := s.entries[name]; ok {
		return src, true
	}
	for n, src := range s.entries {
		if strings.EqualFold(n, name) {
			return src, true
		}
	}
	return Source{}, false
}

// Names returns the source names (sorted).
func (s *Sources) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of sources.
func (s *Sources) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// attributes returns the source attributes in sorted key order.
func (s Source) attributes() *odbc.Attributes {
	keys := make([]string, 0, len(s.Attributes))
	for k := range s.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := odbc.NewAttributes()
	for _, k := range keys {
		attrs.Set(k, s.Attributes[k])
	}
	return attrs
}

// urlDrivers maps dburl driver names to profile names.
var urlDrivers = map[string]string{
	"postgres":      "postgres",
	"pgx":           "postgres",
	"mysql":         "mysql",
	"sqlite3":       "sqlite",
	"sqlite":        "sqlite",
	"moderncsqlite": "sqlite",
	"duckdb":        "duckdb",
}

// resolveURL parses a source URL and returns its profile and DSN. Non-nil
// username and password replace the credentials in the URL.
func resolveURL(raw string, username, password *string) (*Profile, string, error) {
	if username != nil || password != nil {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, "", fmt.Errorf("invalid source url: %w", err)
		}
		user, pass := "", ""
		if u.User != nil {
			user = u.User.Username()
			pass, _ = u.User.Password()
		}
		if username != nil {
			user = *username
		}
		if password != nil {
			pass = *password
		}
		u.User = url.UserPassword(user, pass)
		raw = u.String()
	}

	u, err := dburl.Parse(raw)
	if err != nil {
		return nil, "", fmt.Errorf("invalid source url: %w", err)
	}

	name, ok := urlDrivers[u.Driver]
	if !ok {
		return nil, "", unknownDriver(u.Driver)
	}
	p, ok := Get(name)
	if !ok {
		return nil, "", unknownDriver(name)
	}
	return p, u.DSN, nil
}
