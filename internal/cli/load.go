package cli

import (
	"fmt"

	"github.com/agentx-labs/agentsync/internal/config"
	"github.com/agentx-labs/agentsync/internal/project"
	"github.com/agentx-labs/agentsync/internal/registry"
)

// workspace is the registry and project configuration a command runs
// against.
type workspace struct {
	settings config.Settings
	registry *registry.Registry
	projects *project.Config
}

func loadRegistry() (*registry.Registry, error) {
	s := config.Current()
	reg, err := registry.Load(s.Registry)
	if err != nil {
		if registry.IsConfigError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("loading registry %s: %w", s.Registry, err)
	}
	return reg, nil
}

func loadWorkspace() (*workspace, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	s := config.Current()
	projects, err := project.Load(s.Projects)
	if err != nil {
		return nil, err
	}
	return &workspace{settings: s, registry: reg, projects: projects}, nil
}

// selectProjects returns the named project, or every project when all is
// set. Every selected project is resolved against the registry first so a
// configuration error stops the command before anything is written.
func (ws *workspace) selectProjects(name string, all bool) ([]project.Project, error) {
	var selected []project.Project
	if all {
		selected = ws.projects.Projects()
		if len(selected) == 0 {
			return nil, fmt.Errorf("no projects configured in %s", ws.projects.Path())
		}
	} else {
		p, err := ws.projects.Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = []project.Project{p}
	}

	var problems []string
	for _, p := range selected {
		if _, err := project.ResolvedSet(p, ws.registry); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return nil, &registry.ConfigError{Source: ws.projects.Path(), Problems: problems, Err: registry.ErrNotFound}
	}
	return selected, nil
}
