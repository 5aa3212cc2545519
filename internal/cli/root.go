package cli

import (
	"context"
	"fmt"

	"github.com/agentx-labs/agentsync/internal/branding"
	"github.com/agentx-labs/agentsync/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagRegistry string
	flagProjects string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps versioned agent definitions, templates, scripts and schemas
from one registry in sync across many projects, tracking what each project
received in a per-project lock file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRegistry, "registry", "", "Path to registry.yaml (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagProjects, "projects", "", "Path to projects.yaml (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every sync step to stderr")
}

// setup loads operator configuration, applies flag overrides and builds the
// logger every command shares.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	if err := config.BindFlag(config.KeyRegistry, flags.Lookup("registry")); err != nil {
		return err
	}
	if err := config.BindFlag(config.KeyProjects, flags.Lookup("projects")); err != nil {
		return err
	}

	s := config.Current()
	level := s.LogLevel
	if flagVerbose {
		level = "debug"
	}
	log, err := newLogger(cmd.ErrOrStderr(), level, s.LogFormat)
	if err != nil {
		return err
	}
	logger = log
	return nil
}

// Execute runs the root command with build info injected via ldflags.
// Cancelling ctx stops a sync between artifacts.
func Execute(ctx context.Context, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.ExecuteContext(ctx)
}

func usageError(cmd *cobra.Command, format string, args ...any) error {
	return fmt.Errorf("%s: %s (see '%s --help')", cmd.CommandPath(), fmt.Sprintf(format, args...), cmd.CommandPath())
}
