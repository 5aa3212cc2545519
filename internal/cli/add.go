package cli

import (
	"fmt"

	"github.com/agentx-labs/agentsync/internal/project"
	"github.com/agentx-labs/agentsync/internal/ui"
	"github.com/spf13/cobra"
)

var (
	addPath        string
	addBundle      string
	addDescription string
	addAdditional  []string
	addExcluded    []string
	addProtected   []string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a project",
	Long: `Add a project to projects.yaml. The bundle and every identifier in
--additional and --excluded must exist in the registry.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addPath, "path", "", "Project root, relative to projects.yaml or absolute (required)")
	addCmd.Flags().StringVar(&addBundle, "bundle", "", "Bundle the project receives (required)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Free-form description")
	addCmd.Flags().StringSliceVar(&addAdditional, "additional", nil, "Extra artifact identifiers")
	addCmd.Flags().StringSliceVar(&addExcluded, "excluded", nil, "Artifact identifiers to leave out")
	addCmd.Flags().StringSliceVar(&addProtected, "protected", nil, "Target paths, directories or globs sync must never write (sync state under .agentsync/ is not an artifact target)")
	_ = addCmd.MarkFlagRequired("path")
	_ = addCmd.MarkFlagRequired("bundle")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	p := project.Project{
		Path:        addPath,
		Bundle:      addBundle,
		Description: addDescription,
		Additional:  addAdditional,
		Excluded:    addExcluded,
		Protected:   addProtected,
	}
	if err := ws.projects.Add(name, p); err != nil {
		return err
	}
	added, err := ws.projects.Lookup(name)
	if err != nil {
		return err
	}
	set, err := project.ResolvedSet(added, ws.registry)
	if err != nil {
		return err
	}
	if err := ws.projects.Save(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessLine(fmt.Sprintf("added %s (%d artifacts) to %s", name, len(set), ws.projects.Path())))
	return nil
}
