// Package sqlbridge implements the odbc contract on top of database/sql.
//
// Each supported database is described by a Profile that names its
// database/sql driver, builds its data source name from connection attributes
// and answers get-info requests. Named data sources come from a YAML sources
// file (see LoadSources).
package sqlbridge

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// Environment resolves named sources and driver attributes to sessions.
type Environment struct {
	sources *Sources
	logger  *slog.Logger
}

var _ odbc.Environment = (*Environment)(nil)

// New creates an environment. sources may be nil when only attribute
// connections are used.
func New(sources *Sources, logger *slog.Logger) *Environment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Environment{sources: sources, logger: logger}
}

// Sources returns the configured data sources.
func (e *Environment) Sources() *Sources {
	return e.sources
}

// Connect implements odbc.Environment.
func (e *Environment) Connect(ctx context.Context, source string, username, password *string) (odbc.Conn, error) {
	src, ok := e.sources.Lookup(source)
	if !ok {
		return nil, &odbc.Error{SQLState: "IM002", Message: "Data source name not found: " + source}
	}

	if src.URL != "" {
		p, dsn, err := resolveURL(src.URL, username, password)
		if err != nil {
			return nil, toNativeError(err)
		}
		return e.open(ctx, p, p.urlDriver(), dsn)
	}

	attrs := src.attributes()
	if username != nil {
		attrs.Set("UID", *username)
	}
	if password != nil {
		attrs.Set("PWD", *password)
	}
	p, ok := Get(src.Driver)
	if !ok {
		if p, ok = Match(src.Driver); !ok {
			return nil, unknownDriver(src.Driver)
		}
	}
	return e.openAttrs(ctx, p, attrs)
}

// DriverConnect implements odbc.Environment. A DSN attribute names a source
// whose attributes the remaining ones override. Otherwise the DRIVER
// attribute selects the profile.
func (e *Environment) DriverConnect(ctx context.Context, drv *odbc.Driver) (odbc.Conn, error) {
	attrs := drv.Attrs.Clone()

	if name, ok := attrs.Lookup("DSN"); ok {
		src, found := e.sources.Lookup(name)
		if !found {
			return nil, &odbc.Error{SQLState: "IM002", Message: "Data source name not found: " + name}
		}
		if src.URL != "" {
			username, _ := lookupPtr(attrs, "UID", "USER")
			password, _ := lookupPtr(attrs, "PWD", "PASSWORD")
			p, dsn, err := resolveURL(src.URL, username, password)
			if err != nil {
				return nil, toNativeError(err)
			}
			return e.open(ctx, p, p.urlDriver(), dsn)
		}
		merged := src.attributes()
		for _, k := range attrs.Keys() {
			v, _ := attrs.Get(k)
			merged.Set(k, v)
		}
		attrs = merged
		if _, ok := attrs.Lookup("DRIVER"); !ok {
			attrs.Set("DRIVER", src.Driver)
		}
	}

	name, _ := attrs.Lookup("DRIVER")
	p, ok := Get(name)
	if !ok {
		if p, ok = Match(name); !ok {
			return nil, unknownDriver(name)
		}
	}
	return e.openAttrs(ctx, p, attrs)
}

func lookupPtr(attrs *odbc.Attributes, names ...string) (*string, bool) {
	v, ok := attrs.Lookup(names...)
	if !ok {
		return nil, false
	}
	return &v, true
}

func (e *Environment) openAttrs(ctx context.Context, p *Profile, attrs *odbc.Attributes) (odbc.Conn, error) {
	dsn, err := p.DSN(attrs)
	if err != nil {
		return nil, toNativeError(err)
	}
	return e.open(ctx, p, p.Driver, dsn)
}

func (e *Environment) open(ctx context.Context, p *Profile, driver, dsn string) (odbc.Conn, error) {
	e.logger.Debug("opening database connection",
		slog.String("profile", p.Name),
		slog.String("driver", driver))

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, translate(err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, translate(err)
	}
	return NewConn(db, p, e.logger), nil
}

// toNativeError wraps resolution errors that are not already diagnostics.
func toNativeError(err error) error {
	if ne, ok := err.(*odbc.Error); ok {
		return ne
	}
	return &odbc.Error{SQLState: "HY000", Message: err.Error(), Err: err}
}
