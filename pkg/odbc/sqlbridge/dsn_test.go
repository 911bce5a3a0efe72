package sqlbridge

import (
	"testing"

	"github.com/leapstack-labs/leapodbc/pkg/odbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attrsOf(kv ...string) *odbc.Attributes {
	attrs := odbc.NewAttributes()
	for i := 0; i+1 < len(kv); i += 2 {
		attrs.Set(kv[i], kv[i+1])
	}
	return attrs
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		attrs    *odbc.Attributes
		expected string
	}{
		{
			name:     "defaults",
			attrs:    attrsOf(),
			expected: "host=localhost port=5432 sslmode=disable",
		},
		{
			name:     "full",
			attrs:    attrsOf("Server", "db.internal", "Port", "6432", "Database", "app", "UID", "alice", "PWD", "s3cret", "SSLMODE", "require"),
			expected: "host=db.internal port=6432 dbname=app sslmode=require user=alice password=s3cret",
		},
		{
			name:     "quoted values",
			attrs:    attrsOf("UID", "o'brien", "PWD", `a b\c`),
			expected: `host=localhost port=5432 sslmode=disable user='o\'brien' password='a b\\c'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := buildPostgresDSN(tt.attrs)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	tests := []struct {
		name     string
		attrs    *odbc.Attributes
		contains []string
	}{
		{
			name:     "tcp defaults",
			attrs:    attrsOf("DATABASE", "shop"),
			contains: []string{"tcp(127.0.0.1:3306)/shop", "parseTime=true"},
		},
		{
			name:     "credentials and host",
			attrs:    attrsOf("SERVER", "db", "PORT", "3307", "UID", "root", "PWD", "pw", "DATABASE", "shop"),
			contains: []string{"root:pw@tcp(db:3307)/shop"},
		},
		{
			name:     "socket",
			attrs:    attrsOf("SOCKET", "/var/run/mysqld.sock"),
			contains: []string{"unix(/var/run/mysqld.sock)/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := buildMySQLDSN(tt.attrs)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, dsn, s)
			}
		})
	}
}

func TestBuildSQLiteDSN(t *testing.T) {
	tests := []struct {
		name     string
		attrs    *odbc.Attributes
		expected string
	}{
		{"memory default", attrsOf(), ":memory:"},
		{"database", attrsOf("DATABASE", "/data/app.db"), "/data/app.db"},
		{"dbq", attrsOf("DBQ", "app.db"), "app.db"},
		{"busy timeout", attrsOf("DATABASE", "app.db", "TIMEOUT", "5000"), "file:app.db?_pragma=busy_timeout%285000%29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := buildSQLiteDSN(tt.attrs)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestBuildDuckDBDSN(t *testing.T) {
	tests := []struct {
		name     string
		attrs    *odbc.Attributes
		expected string
	}{
		{"memory", attrsOf("DRIVER", "DuckDB"), ""},
		{"explicit memory", attrsOf("DATABASE", ":memory:"), ""},
		{"path", attrsOf("DATABASE", "/data/warehouse.duckdb"), "/data/warehouse.duckdb"},
		{"settings", attrsOf("DATABASE", "w.duckdb", "THREADS", "4", "access_mode", "READ_ONLY"), "w.duckdb?access_mode=READ_ONLY&threads=4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := buildDuckDBDSN(tt.attrs)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		driver   string
		expected string
		ok       bool
	}{
		{"PostgreSQL Unicode", "postgres", true},
		{"psqlODBC", "postgres", true},
		{"MySQL ODBC 8.0 Driver", "mysql", true},
		{"MariaDB", "mysql", true},
		{"SQLite3", "sqlite", true},
		{"DuckDB Driver", "duckdb", true},
		{"Oracle", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			p, ok := Match(tt.driver)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, p.Name)
			}
		})
	}
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"duckdb", "mysql", "postgres", "sqlite"}, List())
}
