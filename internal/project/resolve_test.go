package project

import (
	"errors"
	"slices"
	"testing"

	"github.com/agentx-labs/agentsync/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	art := func(path string) *registry.Artifact {
		return &registry.Artifact{Version: "1.0.0", Hash: "0000000000000001", SourcePath: path}
	}
	reg, err := registry.New(&registry.Document{
		Artifacts: map[string]map[string]*registry.Artifact{
			"agents":    {"a": art("agents/a.md"), "b": art("agents/b.md"), "c": art("agents/c.md")},
			"templates": {"t": art("templates/t.md")},
		},
		Bundles: map[string]*registry.Bundle{
			"core": {Includes: []string{"agents/a", "agents/b"}},
			"full": {Extends: "core", Includes: []string{"templates/t"}},
		},
	}, t.TempDir())
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	return reg
}

func TestResolvedSet(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name string
		p    Project
		want []string
	}{
		{
			name: "bundle only",
			p:    Project{Name: "p", Bundle: "full"},
			want: []string{"agents/a", "agents/b", "templates/t"},
		},
		{
			name: "with additional",
			p:    Project{Name: "p", Bundle: "core", Additional: []string{"agents/c"}},
			want: []string{"agents/a", "agents/b", "agents/c"},
		},
		{
			name: "exclusion beats bundle membership",
			p:    Project{Name: "p", Bundle: "full", Excluded: []string{"agents/a"}},
			want: []string{"agents/b", "templates/t"},
		},
		{
			name: "exclusion beats additional",
			p:    Project{Name: "p", Bundle: "core", Additional: []string{"agents/c"}, Excluded: []string{"agents/c"}},
			want: []string{"agents/a", "agents/b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvedSet(tt.p, reg)
			if err != nil {
				t.Fatalf("ResolvedSet: %v", err)
			}
			if !slices.Equal(got.Sorted(), tt.want) {
				t.Errorf("ResolvedSet = %v, want %v", got.Sorted(), tt.want)
			}
			for _, x := range tt.p.Excluded {
				if got.Has(x) {
					t.Errorf("excluded %s present in resolved set", x)
				}
			}
		})
	}
}

func TestResolvedSetUnknownIdentifiers(t *testing.T) {
	reg := testRegistry(t)

	tests := []Project{
		{Name: "p", Bundle: "missing"},
		{Name: "p", Bundle: "core", Additional: []string{"agents/ghost"}},
		{Name: "p", Bundle: "core", Excluded: []string{"agents/ghost"}},
	}
	for _, p := range tests {
		_, err := ResolvedSet(p, reg)
		if err == nil {
			t.Fatalf("ResolvedSet(%+v) succeeded, want configuration error", p)
		}
		if !registry.IsConfigError(err) || !errors.Is(err, registry.ErrNotFound) {
			t.Errorf("ResolvedSet(%+v) error = %v, want ConfigError wrapping ErrNotFound", p, err)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	reg := testRegistry(t)
	cfg, _ := Load(writeProjects(t, `projects:
  good:
    path: good
    bundle: core
  bad:
    path: bad
    bundle: core
    additional: [agents/ghost]
`))
	err := cfg.Validate(reg)
	if !registry.IsConfigError(err) {
		t.Fatalf("Validate error = %v, want ConfigError", err)
	}
}
