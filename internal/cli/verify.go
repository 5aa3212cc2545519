package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/agentsync/internal/lock"
	"github.com/agentx-labs/agentsync/internal/registry"
	"github.com/agentx-labs/agentsync/internal/syncer"
	"github.com/agentx-labs/agentsync/internal/ui"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [project]",
	Short: "Check recorded hashes",
	Long: `Without a project, recompute the hash of every registry artifact and compare
it with registry.yaml, and report orphaned artifacts that no bundle or
project reaches.

With a project, compare every installed file with the hash recorded in the
project's lock file.

Any mismatch fails the command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var problems int
	if len(args) == 0 {
		problems = verifyRegistry(out, ws)
	} else {
		problems, err = verifyProject(out, ws, args[0])
		if err != nil {
			return err
		}
	}

	if problems > 0 {
		return &exitError{code: ExitError, msg: fmt.Sprintf("verify found %d problem(s)", problems)}
	}
	fmt.Fprintln(out, ui.SuccessLine("all hashes match"))
	return nil
}

func verifyRegistry(out io.Writer, ws *workspace) int {
	problems := 0
	for _, m := range registry.Verify(ws.registry) {
		problems++
		if m.Err != nil {
			fmt.Fprintln(out, ui.ErrorLine(fmt.Sprintf("%s: %v", m.ID, m.Err)))
			continue
		}
		fmt.Fprintln(out, ui.ErrorLine(fmt.Sprintf("%s: registry records %s, source hashes to %s", m.ID, m.Recorded, m.Actual)))
	}
	for _, id := range ws.registry.Orphans(ws.projects.Additional()...) {
		problems++
		fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf("%s: orphaned, no bundle or project includes it", id)))
	}
	return problems
}

func verifyProject(out io.Writer, ws *workspace, name string) (int, error) {
	p, err := ws.projects.Lookup(name)
	if err != nil {
		return 0, err
	}
	l, err := lock.Load(syncer.LockPath(p, ws.settings.LockFile), p.Name)
	if err != nil {
		return 0, err
	}
	if len(l.Installed) == 0 {
		fmt.Fprintln(out, ui.InfoLine(fmt.Sprintf("%s has not been synced yet", p.Name)))
		return 0, nil
	}

	problems := 0
	for _, d := range syncer.CheckDrift(p, ws.registry, l) {
		switch {
		case d.Err != nil:
			problems++
			fmt.Fprintln(out, ui.ErrorLine(fmt.Sprintf("%s: %v", d.ID, d.Err)))
		case d.Drifted():
			problems++
			fmt.Fprintln(out, ui.ErrorLine(fmt.Sprintf("%s: %s (%s)", d.ID, d.State, d.Target)))
		case d.State == syncer.DriftUnknown:
			fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf("%s: no longer in the registry", d.ID)))
		}
	}
	return problems, nil
}
