package project

import (
	"fmt"

	"github.com/agentx-labs/agentsync/internal/registry"
)

// ResolvedSet computes (resolve(bundle) ∪ additional) \ excluded for p.
// Exclusion is applied last, so it wins over both bundle membership and
// additions. Any identifier the registry does not know is a configuration
// error; nothing is silently dropped.
func ResolvedSet(p Project, reg *registry.Registry) (registry.Set, error) {
	set, err := reg.ResolveBundle(p.Bundle)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.Name, err)
	}

	var problems []string
	for _, id := range p.Additional {
		if !reg.Has(id) {
			problems = append(problems, fmt.Sprintf("project %s: additional artifact %q is not in the registry", p.Name, id))
		}
	}
	for _, id := range p.Excluded {
		if !reg.Has(id) {
			problems = append(problems, fmt.Sprintf("project %s: excluded artifact %q is not in the registry", p.Name, id))
		}
	}
	if len(problems) > 0 {
		return nil, &registry.ConfigError{Source: "project " + p.Name, Problems: problems, Err: registry.ErrNotFound}
	}

	set.Add(p.Additional...)
	set.Remove(p.Excluded...)
	return set, nil
}

// Validate resolves every project against reg and reports all failures as a
// single configuration error.
func (c *Config) Validate(reg *registry.Registry) error {
	var problems []string
	for _, p := range c.Projects() {
		if _, err := ResolvedSet(p, reg); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return &registry.ConfigError{Source: c.path, Problems: problems, Err: registry.ErrNotFound}
	}
	return nil
}
