package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agentx-labs/agentsync/internal/syncer"
	"github.com/agentx-labs/agentsync/internal/ui"
	"github.com/spf13/cobra"
)

var (
	syncAll    bool
	syncForce  bool
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [project]",
	Short: "Bring a project up to date with the registry",
	Long: `Install and update the artifacts of a project's resolved set.

Files edited in the project since the last sync are reported as
locally_modified or conflict and left alone unless --force is given.
Protected paths are never written, with or without --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Sync every configured project")
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "Overwrite locally modified and conflicting files")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show the plan without writing anything")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncAll == (len(args) == 1) {
		return usageError(cmd, "give a project name or --all")
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	selected, err := ws.selectProjects(name, syncAll)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pending := 0
	for _, p := range selected {
		report, err := syncer.Apply(cmd.Context(), syncer.Request{
			Project:  p,
			Registry: ws.registry,
			LockPath: ws.settings.LockFile,
			Force:    syncForce,
			DryRun:   syncDryRun,
			Backup:   ws.settings.Backup,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("syncing %s: %w", p.Name, err)
		}
		if err := printReport(out, report); err != nil {
			return err
		}
		if report.ExitCode() != syncer.ExitOK {
			pending++
		}
	}

	if pending > 0 {
		return &exitError{
			code: ExitUnresolved,
			msg:  fmt.Sprintf("%d of %d project(s) have failed or unresolved items", pending, len(selected)),
		}
	}
	return nil
}

func printReport(out io.Writer, r *syncer.Report) error {
	title := "Syncing " + r.Project
	if r.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, ui.Header(title))

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ARTIFACT\tACTION\tOUTCOME\tTARGET")
	for _, res := range r.Results {
		target := res.Item.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Item.ID, res.Item.Action, res.Outcome, target)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintln(out, ui.ErrorLine(fmt.Sprintf("%s: %v", res.Item.ID, res.Err)))
		case res.Outcome == syncer.Unresolved:
			fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf("%s: %s, rerun with --force to overwrite", res.Item.ID, res.Item.Action)))
		}
		if res.Warning != "" {
			fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf("%s: %s", res.Item.ID, res.Warning)))
		}
		if res.Backup != "" {
			fmt.Fprintln(out, ui.InfoLine(fmt.Sprintf("%s: previous content saved to %s", res.Item.ID, res.Backup)))
		}
	}

	fmt.Fprintf(out, "%s  %d applied, %d pruned, %d unchanged, %d unresolved, %d failed\n\n",
		ui.StatusBadge(string(r.Status())),
		r.Count(syncer.Applied)+r.Count(syncer.Planned),
		r.Count(syncer.Pruned),
		r.Count(syncer.Skipped),
		r.Count(syncer.Unresolved),
		r.Count(syncer.Failed))
	return nil
}
