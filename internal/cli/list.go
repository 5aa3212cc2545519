package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/agentsync/internal/registry"
	"github.com/spf13/cobra"
)

var (
	listOrphans bool
	listBundle  string
	listBundles bool
	listJSON    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registry artifacts",
	Long:  `List the artifacts of the registry, the members of one bundle, the bundles themselves, or orphaned artifacts.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listOrphans, "orphans", false, "Only artifacts no bundle or project reaches")
	listCmd.Flags().StringVar(&listBundle, "bundle", "", "Only artifacts the bundle resolves to, including inherited ones")
	listCmd.Flags().BoolVar(&listBundles, "bundles", false, "List bundles instead of artifacts")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents an artifact for display.
type listEntry struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	Hash        string `json:"hash"`
	Target      string `json:"target"`
	Strategy    string `json:"merge_strategy,omitempty"`
	Description string `json:"description,omitempty"`
}

type bundleEntry struct {
	Name    string   `json:"name"`
	Chain   []string `json:"chain"`
	Members int      `json:"members"`
}

func runList(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	reg := ws.registry

	if listBundles {
		var entries []bundleEntry
		for _, b := range reg.Bundles() {
			set, err := reg.ResolveBundle(b.Name)
			if err != nil {
				return err
			}
			entries = append(entries, bundleEntry{Name: b.Name, Chain: reg.Chain(b.Name), Members: len(set)})
		}
		if listJSON {
			return printJSON(cmd, entries)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "BUNDLE\tMEMBERS\tCHAIN")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.Members, strings.Join(e.Chain, " -> "))
		}
		return w.Flush()
	}

	keep := func(string) bool { return true }
	switch {
	case listOrphans:
		orphans := registry.NewSet(reg.Orphans(ws.projects.Additional()...)...)
		keep = orphans.Has
	case listBundle != "":
		set, err := reg.ResolveBundle(listBundle)
		if err != nil {
			return err
		}
		keep = set.Has
	}

	var entries []listEntry
	for _, a := range reg.Artifacts() {
		if !keep(a.ID()) {
			continue
		}
		entries = append(entries, listEntry{
			ID:          a.ID(),
			Version:     a.Version,
			Hash:        a.Hash,
			Target:      a.Target(),
			Strategy:    string(a.MergeStrategy),
			Description: a.Description,
		})
	}

	if len(entries) == 0 {
		if listOrphans {
			fmt.Fprintln(cmd.OutOrStdout(), "No orphaned artifacts.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No artifacts.")
		}
		return nil
	}

	if listJSON {
		return printJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ARTIFACT\tVERSION\tHASH\tTARGET")
	for _, e := range entries {
		target := e.Target
		if e.Strategy != "" && e.Strategy != string(registry.MergeCopy) {
			target += " (" + e.Strategy + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Version, e.Hash, target)
	}
	return w.Flush()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
