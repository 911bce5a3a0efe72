package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapodbc/pkg/adapter"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a query and print its results",
		Long: `Run a query against the configured connection and print the typed result set.

Placeholders are written $1, $2, ... and bound from --bind values in order.
When invoked without SQL on a terminal, enters interactive REPL mode.`,
		Example: `  # Query a named source
  leapodbc query --source warehouse "SELECT * FROM users"

  # Driver attributes and JSON output
  leapodbc query --attributes "DRIVER=SQLite3;DATABASE=app.db" -o json "SELECT 1"

  # Read SQL from a file
  leapodbc query -i report.sql

  # Interactive mode
  leapodbc query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringArray("bind", nil, "Bind value for the next $N placeholder (repeatable)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd)
	}

	cmdCtx := NewCommandContext(cmd)
	a, err := cmdCtx.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	binds, err := bindValues(cmd)
	if err != nil {
		return err
	}
	return executeAndRender(cmd.Context(), cmd.OutOrStdout(), a, sqlQuery, cmdCtx.Cfg.OutputFormat, binds...)
}

func executeAndRender(ctx context.Context, w io.Writer, a *adapter.Adapter, sqlQuery, format string, binds ...any) error {
	rs, err := a.Query(ctx, strings.TrimSpace(sqlQuery), binds...)
	if err != nil {
		return err
	}
	return renderResults(w, rs, format)
}

// bindValues returns the --bind flag values as statement binds.
func bindValues(cmd *cobra.Command) ([]any, error) {
	f := cmd.Flags().Lookup("bind")
	if f == nil {
		return nil, nil
	}
	values, err := cmd.Flags().GetStringArray("bind")
	if err != nil {
		return nil, err
	}
	binds := make([]any, len(values))
	for i, v := range values {
		binds[i] = v
	}
	return binds, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
