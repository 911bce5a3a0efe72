package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapodbc/pkg/odbc/sqlbridge"
	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the leapodbc version, build details and the compiled-in drivers.`,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "leapodbc v%s\n", info.Version)
			if info.GitCommit != "" && info.GitCommit != "unknown" {
				_, _ = fmt.Fprintf(w, "commit %s, built %s\n", info.GitCommit, info.BuildDate)
			}
			_, _ = fmt.Fprintf(w, "drivers: %s\n", strings.Join(sqlbridge.List(), ", "))
		},
	}
}
