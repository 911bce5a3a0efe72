package sqlbridge

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// Profile describes how one database is reached through database/sql and how
// it answers get-info requests.
type Profile struct {
	// Name is the profile key used by the driver field of the sources file.
	Name string
	// DBMSName is the SQL_DBMS_NAME answer.
	DBMSName string
	// Driver is the database/sql driver used for attribute connections.
	Driver string
	// URLDriver is the database/sql driver used for URL sources.
	// Empty means Driver.
	URLDriver string
	// Matches is tested against the DRIVER attribute of an attribute string.
	Matches *regexp.Regexp

	IdentifierCase   uint16
	QuoteChar        string
	MaxIdentifierLen int
	MaxTableNameLen  int

	// Probe queries answer the version, user and database info types. An
	// empty query falls back to the matching static value.
	VersionQuery  string
	UserQuery     string
	DatabaseQuery string
	Database      string

	// BindType is the sqlx bind style ? markers are rewritten to before a
	// statement with arguments reaches the driver. Zero keeps ? markers.
	BindType int

	// UntypedColumn is the type reported for result columns without a
	// declared type. Zero falls back to the scan type.
	UntypedColumn odbc.SQLType

	// DSN builds the data source name from connection attributes.
	DSN func(attrs *odbc.Attributes) (string, error)
}

func (p *Profile) urlDriver() string {
	if p.URLDriver != "" {
		return p.URLDriver
	}
	return p.Driver
}

var (
	profilesMu sync.RWMutex
	profiles   = make(map[string]*Profile)
	order      []string
)

// Register adds a profile. Profiles are matched in registration order.
func Register(p *Profile) {
	profilesMu.Lock()
	defer profilesMu.Unlock()
	if _, ok := profiles[p.Name]; !ok {
		order = append(order, p.Name)
	}
	profiles[p.Name] = p
}

// Get returns the profile registered under name.
func Get(name string) (*Profile, bool) {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	p, ok := profiles[name]
	return p, ok
}

// Match returns the first profile whose pattern matches a DRIVER attribute.
func Match(driver string) (*Profile, bool) {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	for _, name := range order {
		p := profiles[name]
		if p.Matches != nil && p.Matches.MatchString(driver) {
			return p, true
		}
	}
	return nil, false
}

// List returns all registered profile names (sorted).
func List() []string {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDriverError is returned when no profile serves a requested driver.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q\nAvailable drivers: %v\nHint: Check the DRIVER attribute or the driver of the source in your sources file", e.Driver, e.Available)
}

func unknownDriver(name string) *odbc.Error {
	err := &UnknownDriverError{Driver: name, Available: List()}
	return &odbc.Error{SQLState: "IM002", Message: err.Error(), Err: err}
}
