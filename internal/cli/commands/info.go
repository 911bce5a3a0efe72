package commands

import (
	"strconv"

	"github.com/leapstack-labs/leapodbc/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the capabilities of the connected database",
		Long: `Connect, print the introspected capability record and the selected variant,
then disconnect.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			a, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			return renderCapabilities(cmd.OutOrStdout(), capabilityRows(a), cmdCtx.Cfg.OutputFormat)
		},
	}
}

func capabilityRows(a *adapter.Adapter) [][2]string {
	caps := a.Capabilities()
	v := a.Variant()
	return [][2]string{
		{"dbms_name", caps.DBMSName},
		{"dbms_version", caps.DBMSVersion},
		{"identifier_case", caps.IdentifierCase.String()},
		{"quoted_identifier_case", caps.QuotedIdentifierCase.String()},
		{"identifier_quote_char", caps.IdentifierQuoteChar},
		{"max_identifier_length", strconv.Itoa(caps.MaxIdentifierLen)},
		{"max_table_name_length", strconv.Itoa(caps.MaxTableNameLen)},
		{"user_name", caps.UserName},
		{"database_name", caps.DatabaseName},
		{"variant", v.Name()},
		{"prepared_statements", strconv.FormatBool(v.PreparedStatements())},
		{"supports_migrations", strconv.FormatBool(v.SupportsMigrations())},
	}
}
