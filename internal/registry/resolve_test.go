package registry

import (
	"errors"
	"slices"
	"testing"
)

func TestResolveBundleInheritance(t *testing.T) {
	reg, err := Load(writeRegistry(t, baseRegistry, nil))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		bundle string
		want   []string
	}{
		{"core", []string{"agents/reviewer"}},
		{"web", []string{"agents/reviewer", "templates/pr"}},
		{"web-plus", []string{"agents/planner", "agents/reviewer", "templates/pr"}},
	}
	for _, tt := range tests {
		got, err := reg.ResolveBundle(tt.bundle)
		if err != nil {
			t.Fatalf("ResolveBundle(%s): %v", tt.bundle, err)
		}
		if !slices.Equal(got.Sorted(), tt.want) {
			t.Errorf("ResolveBundle(%s) = %v, want %v", tt.bundle, got.Sorted(), tt.want)
		}
	}
}

func TestResolveBundleSupersetOfParent(t *testing.T) {
	reg, err := Load(writeRegistry(t, baseRegistry, nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range reg.Bundles() {
		if b.Extends == "" {
			continue
		}
		child, _ := reg.ResolveBundle(b.Name)
		parent, _ := reg.ResolveBundle(b.Extends)
		if !child.IsSuperset(parent) {
			t.Errorf("resolve(%s) = %v is not a superset of resolve(%s) = %v",
				b.Name, child.Sorted(), b.Extends, parent.Sorted())
		}
	}
}

func TestResolveBundleReturnsCopy(t *testing.T) {
	reg, err := Load(writeRegistry(t, baseRegistry, nil))
	if err != nil {
		t.Fatal(err)
	}
	first, _ := reg.ResolveBundle("core")
	first.Add("templates/stray")

	second, _ := reg.ResolveBundle("core")
	if second.Has("templates/stray") {
		t.Error("mutating a resolved set leaked into the registry")
	}
}

func TestResolveBundleUnknown(t *testing.T) {
	reg, err := Load(writeRegistry(t, baseRegistry, nil))
	if err != nil {
		t.Fatal(err)
	}
	_, err = reg.ResolveBundle("nope")
	if !errors.Is(err, ErrNotFound) || !IsConfigError(err) {
		t.Errorf("ResolveBundle(nope) error = %v, want ConfigError wrapping ErrNotFound", err)
	}
}

func TestChain(t *testing.T) {
	reg, err := Load(writeRegistry(t, baseRegistry, nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := reg.Chain("web-plus"); !slices.Equal(got, []string{"web-plus", "web", "core"}) {
		t.Errorf("Chain = %v", got)
	}
}

func TestOrphans(t *testing.T) {
	reg, err := Load(writeRegistry(t, baseRegistry, nil))
	if err != nil {
		t.Fatal(err)
	}

	if got := reg.Orphans(); !slices.Equal(got, []string{"templates/stray"}) {
		t.Errorf("Orphans() = %v, want [templates/stray]", got)
	}

	// A project addition makes the artifact reachable.
	if got := reg.Orphans([]string{"templates/stray"}); len(got) != 0 {
		t.Errorf("Orphans(additional) = %v, want none", got)
	}
}

func TestOrphansExactlyUnreachable(t *testing.T) {
	reg, err := Load(writeRegistry(t, baseRegistry, nil))
	if err != nil {
		t.Fatal(err)
	}

	reachable := NewSet()
	for _, b := range reg.Bundles() {
		s, _ := reg.ResolveBundle(b.Name)
		reachable.Union(s)
	}

	orphans := NewSet(reg.Orphans()...)
	for _, a := range reg.Artifacts() {
		if orphans.Has(a.ID()) == reachable.Has(a.ID()) {
			t.Errorf("%s: orphan=%v reachable=%v", a.ID(), orphans.Has(a.ID()), reachable.Has(a.ID()))
		}
	}
}

func TestSet(t *testing.T) {
	s := NewSet("b", "a")
	s.Add("c")
	s.Remove("b")
	if !slices.Equal(s.Sorted(), []string{"a", "c"}) {
		t.Errorf("Sorted = %v", s.Sorted())
	}
	if !s.IsSuperset(NewSet("a")) || s.IsSuperset(NewSet("b")) {
		t.Error("IsSuperset mismatch")
	}
}
