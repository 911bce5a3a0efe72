package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [DIR]",
		Short: "Apply pending schema migrations",
		Long: `Apply the pending goose migrations in DIR (default: migrations_dir from the
config) to the connected database. Only PostgreSQL, MySQL and SQLite support
migrations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			dir := cmdCtx.Cfg.MigrationsDir
			if len(args) > 0 {
				dir = args[0]
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("migrations directory does not exist: %s\nHint: Create the directory or pass it as an argument", dir)
			}

			a, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Migrate(cmd.Context(), os.DirFS(dir), "."); err != nil {
				return err
			}
			version, err := a.MigrationVersion(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Database is at migration version %d\n", version)
			return nil
		},
	}
}
