// Package core defines the shared language of leapodbc.
//
// This package contains:
//   - Connection configuration (Config, ResolvedConfig)
//   - The introspected capability record (Capabilities)
//   - Canonical result data (Column, Value, ResultSet)
//   - The error taxonomy surfaced to callers
//
// The Golden Rule: pkg/core imports ONLY pkg/odbc, civil, mapstructure and stdlib.
// All other packages depend on core, not the reverse.
package core
