package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/leapodbc/pkg/odbc/sqlbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSources() *sqlbridge.Sources {
	return sqlbridge.NewSources(map[string]sqlbridge.Source{
		"warehouse": {Description: "Reporting replica", URL: "postgres://report:s3cret@db:5432/warehouse"},
		"local":     {Driver: "SQLite3", Attributes: map[string]string{"DATABASE": "app.db"}},
	})
}

func TestRenderSources_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderSources(&buf, testSources(), "json"))

	var out []sourceOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)

	assert.Equal(t, "local", out[0].Name)
	assert.Equal(t, "SQLite3", out[0].Driver)
	assert.Equal(t, "warehouse", out[1].Name)
	assert.Equal(t, "postgres://report:xxxxx@db:5432/warehouse", out[1].URL)
	assert.NotContains(t, buf.String(), "s3cret")
}

func TestRenderSources_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderSources(&buf, testSources(), "table"))

	out := buf.String()
	assert.Contains(t, out, "warehouse")
	assert.Contains(t, out, "Reporting replica")
	assert.NotContains(t, out, "s3cret")
}

func TestRenderSources_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderSources(&buf, sqlbridge.NewSources(nil), "table"))

	assert.Contains(t, buf.String(), "No data sources defined.")
	assert.Contains(t, buf.String(), "postgres")
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"sqlite:/tmp/app.db", "sqlite:/tmp/app.db"},
		{"mysql://root:pw@db/shop", "mysql://root:xxxxx@db/shop"},
		{"postgres://user@db/app", "postgres://user@db/app"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, redactURL(tt.in), tt.in)
	}
}
