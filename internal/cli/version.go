package cli

import (
	"encoding/json"
	"fmt"

	"github.com/agentx-labs/agentsync/internal/branding"
	"github.com/agentx-labs/agentsync/internal/lock"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the --json shape. LockVersion is the lock document format
// this build reads and writes.
type versionInfo struct {
	CLI         string `json:"cli"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Date        string `json:"date"`
	LockVersion int    `json:"lock_version"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			info := versionInfo{
				CLI:         branding.CLIName(),
				Version:     buildVersion,
				Commit:      buildCommit,
				Date:        buildDate,
				LockVersion: lock.Version,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s, lock format: %d)\n",
			branding.CLIName(), buildVersion, buildCommit, buildDate, lock.Version)
		return nil
	},
}
