package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/agentx-labs/agentsync/internal/registry"
	"github.com/agentx-labs/agentsync/internal/ui"
	"github.com/spf13/cobra"
)

var (
	rehashBump   bool
	rehashDryRun bool
)

var rehashCmd = &cobra.Command{
	Use:   "rehash",
	Short: "Recompute artifact hashes in registry.yaml",
	Long: `Recompute the hash of every artifact from its source file and write the
changed values back into registry.yaml, keeping comments and ordering.
With --bump the patch version of every changed artifact is incremented.`,
	Args: cobra.NoArgs,
	RunE: runRehash,
}

func init() {
	rehashCmd.Flags().BoolVar(&rehashBump, "bump", false, "Increment the patch version of changed artifacts")
	rehashCmd.Flags().BoolVar(&rehashDryRun, "dry-run", false, "Show changes without writing registry.yaml")
	rootCmd.AddCommand(rehashCmd)
}

func runRehash(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	_, changes, err := registry.Rehash(reg, registry.RehashOptions{BumpPatch: rehashBump})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(out, ui.SuccessLine("all hashes are current"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ARTIFACT\tHASH\tVERSION")
	for _, c := range changes {
		version := c.NewVersion
		if c.OldVersion != c.NewVersion {
			version = c.OldVersion + " -> " + c.NewVersion
		}
		fmt.Fprintf(w, "%s\t%s -> %s\t%s\n", c.ID, c.OldHash, c.NewHash, version)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if rehashDryRun {
		return nil
	}
	if err := registry.WriteChanges(reg.Path(), changes); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.SuccessLine(fmt.Sprintf("updated %d artifact(s) in %s", len(changes), reg.Path())))
	return nil
}
