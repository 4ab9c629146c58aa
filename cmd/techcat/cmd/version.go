package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbmrq/techcat/internal/version"
)

func newVersionCmd() *cobra.Command {
	v := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show detailed version information for techcat.

Displays the current version, commit hash, build date,
and Go/platform information.

Examples:
  techcat version          # Show detailed version info
  techcat version --json   # Machine-readable output`,
		RunE: runVersion,
	}
	v.Flags().Bool("json", false, "Print version information as JSON")
	return v
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.NewInfo(Version, Commit, Date)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), info.FullString())
	return err
}
