package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/agentsync/internal/lock"
	"github.com/agentx-labs/agentsync/internal/plan"
	"github.com/agentx-labs/agentsync/internal/syncer"
	"github.com/agentx-labs/agentsync/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [project]",
	Short: "Show what a sync would do",
	Long:  `Classify every artifact of one project, or of every project, without writing anything.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	selected, err := ws.selectProjects(name, len(args) == 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range selected {
		l, err := lock.Load(syncer.LockPath(p, ws.settings.LockFile), p.Name)
		if err != nil {
			return err
		}
		pl, err := plan.Build(p, ws.registry, l)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, ui.Header(fmt.Sprintf("%s (bundle %s)", p.Name, p.Bundle)))
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ARTIFACT\tACTION\tINSTALLED\tREGISTRY")
		for _, it := range pl.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Action, orDash(it.LockVersion), orDash(it.RegistryVersion))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		counts := pl.Counts()
		var summary []string
		for _, a := range plan.Actions {
			if counts[a] > 0 {
				summary = append(summary, fmt.Sprintf("%s %d", a, counts[a]))
			}
		}
		if len(summary) > 0 {
			fmt.Fprintln(out, "  "+strings.Join(summary, ", "))
		}
		if n := len(pl.Unresolved(false)); n > 0 {
			fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf("%d item(s) need --force or manual reconciliation", n)))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
