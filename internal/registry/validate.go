package registry

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// validate checks artifact fields and bundle references. Every problem found
// is collected so one run reports all of them.
func (r *Registry) validate() error {
	var problems []string
	var sentinel error
	targets := make(map[string]string)

	for _, a := range r.Artifacts() {
		id := a.ID()
		if _, _, ok := ParseID(id); !ok {
			problems = append(problems, fmt.Sprintf("artifact %q: identifier must be category/name", id))
		}
		if a.Version == "" {
			problems = append(problems, fmt.Sprintf("artifact %s: missing version", id))
		} else if _, err := ParseVersion(a.Version); err != nil {
			problems = append(problems, fmt.Sprintf("artifact %s: version %q is not semantic: %v", id, a.Version, err))
		}
		if a.Hash == "" {
			problems = append(problems, fmt.Sprintf("artifact %s: missing hash", id))
		}
		if a.SourcePath == "" {
			problems = append(problems, fmt.Sprintf("artifact %s: missing source_path", id))
		} else if !isLocalPath(a.SourcePath) {
			problems = append(problems, fmt.Sprintf("artifact %s: source_path %q must be relative and stay inside the registry root", id, a.SourcePath))
		}
		if a.TargetPath != "" && !isLocalPath(a.TargetPath) {
			problems = append(problems, fmt.Sprintf("artifact %s: target_path %q must be relative and stay inside the project", id, a.TargetPath))
		}
		if !a.MergeStrategy.Valid() {
			problems = append(problems, fmt.Sprintf("artifact %s: unknown merge_strategy %q", id, a.MergeStrategy))
		}

		target := a.Target()
		if other, dup := targets[target]; dup {
			problems = append(problems, fmt.Sprintf("artifacts %s and %s both write %s", other, id, target))
		} else {
			targets[target] = id
		}
	}

	for _, b := range r.Bundles() {
		if b.Extends != "" {
			if _, ok := r.bundles[b.Extends]; !ok {
				problems = append(problems, fmt.Sprintf("bundle %s extends unknown bundle %q", b.Name, b.Extends))
				sentinel = ErrNotFound
			}
		}
		for _, id := range b.Includes {
			if !r.Has(id) {
				problems = append(problems, fmt.Sprintf("bundle %s includes unknown artifact %q", b.Name, id))
				sentinel = ErrNotFound
			}
		}
	}

	if len(problems) > 0 {
		return &ConfigError{Source: r.path, Problems: problems, Err: sentinel}
	}

	return r.checkChains()
}

// checkChains walks each bundle's extends chain with a visited set. A bundle
// seen twice on one walk is a cycle (a self-reference is the shortest one).
func (r *Registry) checkChains() error {
	for _, b := range r.Bundles() {
		visited := make(map[string]bool)
		chain := []string{}
		name := b.Name
		for name != "" {
			if visited[name] {
				chain = append(chain, name)
				return &ConfigError{
					Source:   r.path,
					Problems: []string{fmt.Sprintf("bundle %s: extends chain loops: %s", b.Name, strings.Join(chain, " -> "))},
					Err:      ErrCycle,
				}
			}
			visited[name] = true
			chain = append(chain, name)
			name = r.bundles[name].Extends
		}
	}
	return nil
}

// ParseVersion parses an artifact version, tolerating a leading "v".
func ParseVersion(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}

// isLocalPath reports whether a slash-separated path is relative and does
// not escape its root.
func isLocalPath(p string) bool {
	return filepath.IsLocal(filepath.FromSlash(p)) && !slices.Contains(strings.Split(p, "/"), "..")
}
