package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exec SQL",
		Short:   "Execute a statement and print the affected row count",
		Example: `  leapodbc exec --source warehouse "DELETE FROM events WHERE day < $1" --bind 2024-01-01`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			n, err := a.Execute(cmd.Context(), strings.Join(args, " "), binds...)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		},
	}
	cmd.Flags().StringArray("bind", nil, "Bind value for the next $N placeholder (repeatable)")
	return cmd
}
