package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentx-labs/agentsync/internal/schema"
	"go.yaml.in/yaml/v3"
)

// Registry is a validated, read-only view of registry.yaml.
type Registry struct {
	path      string
	root      string
	version   string
	artifacts map[string]Artifact
	bundles   map[string]Bundle
	resolved  map[string]Set
}

// Load reads, schema-validates and structurally validates the registry at
// path. Artifact source paths are resolved against the directory holding
// the file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	result, err := schema.ValidateYAML(schema.KindRegistry, data)
	if err != nil {
		return nil, &ConfigError{Source: path, Problems: []string{err.Error()}}
	}
	if !result.Valid {
		problems := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			problems = append(problems, issue.String())
		}
		return nil, &ConfigError{Source: path, Problems: problems}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Source: path, Problems: []string{err.Error()}}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving registry path: %w", err)
	}

	return build(&doc, filepath.Dir(abs), abs)
}

// New builds a Registry from an already-decoded document. root is the
// directory artifact source paths are relative to.
func New(doc *Document, root string) (*Registry, error) {
	return build(doc, root, "registry")
}

func build(doc *Document, root, source string) (*Registry, error) {
	reg := &Registry{
		path:      source,
		root:      root,
		version:   doc.Version,
		artifacts: make(map[string]Artifact),
		bundles:   make(map[string]Bundle),
		resolved:  make(map[string]Set),
	}

	for category, entries := range doc.Artifacts {
		for name, a := range entries {
			if a == nil {
				a = &Artifact{}
			}
			art := *a
			art.Category = category
			art.Name = name
			art.Dependencies = slices.Clone(a.Dependencies)
			reg.artifacts[art.ID()] = art
		}
	}
	for name, b := range doc.Bundles {
		if b == nil {
			b = &Bundle{}
		}
		bundle := *b
		bundle.Name = name
		bundle.Includes = slices.Clone(b.Includes)
		reg.bundles[name] = bundle
	}

	if err := reg.validate(); err != nil {
		return nil, err
	}
	if err := reg.resolveAll(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Path returns the absolute path of the registry document, or a label when
// the registry was built in memory.
func (r *Registry) Path() string { return r.path }

// Root returns the directory artifact source paths are relative to.
func (r *Registry) Root() string { return r.root }

// Version returns the registry-wide version string.
func (r *Registry) Version() string { return r.version }

// Lookup returns the artifact with the given identifier.
func (r *Registry) Lookup(id string) (Artifact, error) {
	a, ok := r.artifacts[id]
	if !ok {
		return Artifact{}, fmt.Errorf("artifact %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// Has reports whether id names an artifact in the registry.
func (r *Registry) Has(id string) bool {
	_, ok := r.artifacts[id]
	return ok
}

// Bundle returns the named bundle.
func (r *Registry) Bundle(name string) (Bundle, error) {
	b, ok := r.bundles[name]
	if !ok {
		return Bundle{}, fmt.Errorf("bundle %q: %w", name, ErrNotFound)
	}
	return b, nil
}

// Artifacts returns every artifact ordered by identifier.
func (r *Registry) Artifacts() []Artifact {
	ids := make([]string, 0, len(r.artifacts))
	for id := range r.artifacts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Artifact, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.artifacts[id])
	}
	return out
}

// Bundles returns every bundle ordered by name.
func (r *Registry) Bundles() []Bundle {
	out := make([]Bundle, 0, len(r.bundles))
	for _, b := range r.bundles {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Bundle) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Categories returns the distinct artifact categories in order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range r.artifacts {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	slices.Sort(out)
	return out
}

// SourceFile returns the absolute path of an artifact's source file.
func (r *Registry) SourceFile(a Artifact) string {
	return filepath.Join(r.root, filepath.FromSlash(a.SourcePath))
}
