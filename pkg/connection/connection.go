// Package connection opens native sessions from connection configuration.
//
// Two configuration shapes are accepted: a named data source with optional
// credentials, or an attribute string of semicolon separated KEY=VALUE pairs
// handed to the driver-connect primitive. Establish returns the resolved
// configuration alongside the session so that Reconnect can open an equivalent
// session without the raw input.
package connection

import (
	"context"
	"strings"

	"github.com/leapstack-labs/leapodbc/pkg/core"
	"github.com/leapstack-labs/leapodbc/pkg/odbc"
)

// DriverName is the driver name used for attribute-string connections.
const DriverName = "odbc"

// Establish validates cfg and opens a native session through env.
// Configuration errors are returned before any native call is made.
func Establish(ctx context.Context, env odbc.Environment, cfg core.Config) (odbc.Conn, core.ResolvedConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, core.ResolvedConfig{}, err
	}

	var resolved core.ResolvedConfig
	if cfg.HasSourceName() {
		resolved = core.ResolvedConfig{
			SourceName: cfg.SourceName,
			Username:   optional(cfg.Username),
			Password:   optional(cfg.Password),
		}
	} else {
		resolved = core.ResolvedConfig{
			Driver: &odbc.Driver{Name: DriverName, Attrs: ParseAttributes(cfg.AttributeString)},
		}
	}

	conn, err := Reconnect(ctx, env, resolved)
	if err != nil {
		return nil, core.ResolvedConfig{}, err
	}
	return conn, resolved, nil
}

// Reconnect opens a session from an already resolved configuration.
func Reconnect(ctx context.Context, env odbc.Environment, resolved core.ResolvedConfig) (odbc.Conn, error) {
	var (
		conn odbc.Conn
		err  error
	)
	if resolved.IsSource() {
		conn, err = env.Connect(ctx, resolved.SourceName, resolved.Username, resolved.Password)
	} else {
		conn, err = env.DriverConnect(ctx, resolved.Driver)
	}
	if err != nil {
		return nil, &core.ConnectionError{Err: err}
	}
	return conn, nil
}

// ParseAttributes splits an attribute string into an ordered mapping.
// Each segment is split on its first '=' only. A segment without '=' passes
// through as a key with an empty value; empty segments are skipped.
func ParseAttributes(s string) *odbc.Attributes {
	attrs := odbc.NewAttributes()
	for _, segment := range strings.Split(s, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		attrs.Set(key, value)
	}
	return attrs
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
