package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapodbc/pkg/core"
)

// renderResults writes rs in the given format (table, json, csv or md).
func renderResults(w io.Writer, rs *core.ResultSet, format string) error {
	switch format {
	case "json":
		return renderJSON(w, rs)
	case "csv":
		newTable(w, rs).RenderCSV()
		return nil
	case "md", "markdown":
		if rs.Len() == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			return nil
		}
		newTable(w, rs).RenderMarkdown()
		return nil
	default:
		return renderTable(w, rs)
	}
}

func newTable(w io.Writer, rs *core.ResultSet) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col.Name
	}
	t.AppendHeader(header)

	for _, r := range rs.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v.String()
		}
		t.AppendRow(row)
	}
	return t
}

func renderTable(w io.Writer, rs *core.ResultSet) error {
	if rs.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newTable(w, rs)
	t.SetStyle(table.StyleLight)
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", rs.Len())
	return nil
}

func renderJSON(w io.Writer, rs *core.ResultSet) error {
	results := make([]map[string]any, 0, rs.Len())
	for _, r := range rs.Rows {
		row := make(map[string]any, len(rs.Columns))
		for i, col := range rs.Columns {
			v := r[i]
			if v.Kind() == core.KindBinary {
				row[col.Name] = v.String()
				continue
			}
			row[col.Name] = v.Interface()
		}
		results = append(results, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderCapabilities(w io.Writer, rows [][2]string, format string) error {
	if format == "json" {
		m := make(map[string]string, len(rows))
		for _, r := range rows {
			m[r[0]] = r[1]
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Property", "Value"})
	for _, r := range rows {
		t.AppendRow(table.Row{r[0], r[1]})
	}
	switch format {
	case "csv":
		t.RenderCSV()
	case "md", "markdown":
		t.RenderMarkdown()
	default:
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}
