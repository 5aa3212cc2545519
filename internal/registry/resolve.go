package registry

import (
	"fmt"
	"slices"
)

// resolveAll memoizes the resolution of every bundle. It runs once during
// load, after checkChains has proven every extends chain terminates.
func (r *Registry) resolveAll() error {
	for _, b := range r.Bundles() {
		if _, err := r.resolve(b.Name); err != nil {
			return err
		}
	}
	return nil
}

// resolve returns includes(name) ∪ resolve(extends(name)), filling the memo
// table on the way down.
func (r *Registry) resolve(name string) (Set, error) {
	if s, ok := r.resolved[name]; ok {
		return s, nil
	}
	b, ok := r.bundles[name]
	if !ok {
		return nil, fmt.Errorf("bundle %q: %w", name, ErrNotFound)
	}

	set := NewSet(b.Includes...)
	if b.Extends != "" {
		parent, err := r.resolve(b.Extends)
		if err != nil {
			return nil, fmt.Errorf("resolving parent of %s: %w", name, err)
		}
		set.Union(parent)
	}
	r.resolved[name] = set
	return set, nil
}

// ResolveBundle returns every artifact identifier the bundle provides,
// including everything inherited through its extends chain. The returned
// set is a copy the caller may modify.
func (r *Registry) ResolveBundle(name string) (Set, error) {
	s, ok := r.resolved[name]
	if !ok {
		return nil, &ConfigError{
			Source:   r.path,
			Problems: []string{fmt.Sprintf("unknown bundle %q", name)},
			Err:      ErrNotFound,
		}
	}
	return s.Clone(), nil
}

// Chain returns the bundle followed by its ancestors, nearest first.
func (r *Registry) Chain(name string) []string {
	var chain []string
	for name != "" && !slices.Contains(chain, name) {
		b, ok := r.bundles[name]
		if !ok {
			break
		}
		chain = append(chain, name)
		name = b.Extends
	}
	return chain
}

// Orphans returns, in order, the artifacts that no bundle resolves to and
// that appear in none of the given per-project addition lists. Such
// artifacts can never be installed anywhere.
func (r *Registry) Orphans(additional ...[]string) []string {
	reachable := NewSet()
	for _, s := range r.resolved {
		reachable.Union(s)
	}
	for _, ids := range additional {
		reachable.Add(ids...)
	}

	var orphans []string
	for _, a := range r.Artifacts() {
		if !reachable.Has(a.ID()) {
			orphans = append(orphans, a.ID())
		}
	}
	return orphans
}
