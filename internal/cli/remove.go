package cli

import (
	"fmt"

	"github.com/agentx-labs/agentsync/internal/ui"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Unregister a project",
	Long:    `Remove a project from projects.yaml. Files already synced into it and its lock file are left in place.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	if err := ws.projects.Remove(args[0]); err != nil {
		return err
	}
	if err := ws.projects.Save(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessLine(fmt.Sprintf("removed %s from %s", args[0], ws.projects.Path())))
	return nil
}
