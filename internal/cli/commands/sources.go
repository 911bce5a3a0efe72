package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapodbc/pkg/odbc/sqlbridge"
	"github.com/spf13/cobra"
)

// NewSourcesCommand creates the sources command.
func NewSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the named data sources",
		Long: `List the data sources defined in the sources file and the drivers
available to attribute-string connections.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			sources, err := cmdCtx.Sources()
			if err != nil {
				return err
			}
			return renderSources(cmd.OutOrStdout(), sources, cmdCtx.Cfg.OutputFormat)
		},
	}
}

type sourceOutput struct {
	Name        string `json:"name"`
	Driver      string `json:"driver,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

func renderSources(w io.Writer, sources *sqlbridge.Sources, format string) error {
	var out []sourceOutput
	for _, name := range sources.Names() {
		src, _ := sources.Lookup(name)
		out = append(out, sourceOutput{
			Name:        name,
			Driver:      src.Driver,
			URL:         redactURL(src.URL),
			Description: src.Description,
		})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out) == 0 {
		_, _ = fmt.Fprintln(w, "No data sources defined.")
		_, _ = fmt.Fprintf(w, "Available drivers: %v\n", sqlbridge.List())
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Driver", "URL", "Description"})
	for _, s := range out {
		t.AppendRow(table.Row{s.Name, s.Driver, s.URL, s.Description})
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

// redactURL hides the password of a source URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
