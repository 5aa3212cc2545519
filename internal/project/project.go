package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/agentx-labs/agentsync/internal/platform"
	"github.com/agentx-labs/agentsync/internal/registry"
	"github.com/agentx-labs/agentsync/internal/schema"
	"go.yaml.in/yaml/v3"
)

// Project is one sync target.
type Project struct {
	Name        string   `yaml:"-" json:"name"`
	Path        string   `yaml:"path" json:"path"`
	Bundle      string   `yaml:"bundle" json:"bundle"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Additional  []string `yaml:"additional,omitempty" json:"additional,omitempty"`
	Excluded    []string `yaml:"excluded,omitempty" json:"excluded,omitempty"`
	Protected   []string `yaml:"protected,omitempty" json:"protected,omitempty"`

	// Root is Path made absolute against the directory of projects.yaml.
	Root string `yaml:"-" json:"root"`
}

// Document is the on-disk shape of projects.yaml.
type Document struct {
	Projects map[string]*Project `yaml:"projects"`
}

// Config is a loaded projects.yaml.
type Config struct {
	path     string
	projects map[string]Project
}

// Load reads and schema-validates projects.yaml. A missing file yields an
// empty configuration so `add` can create it.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving projects path: %w", err)
	}
	cfg := &Config{path: abs, projects: make(map[string]Project)}

	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading projects config: %w", err)
	}

	result, err := schema.ValidateYAML(schema.KindProjects, data)
	if err != nil {
		return nil, &registry.ConfigError{Source: abs, Problems: []string{err.Error()}}
	}
	if !result.Valid {
		problems := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			problems = append(problems, issue.String())
		}
		return nil, &registry.ConfigError{Source: abs, Problems: problems}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &registry.ConfigError{Source: abs, Problems: []string{err.Error()}}
	}

	for name, p := range doc.Projects {
		if p == nil {
			continue
		}
		cfg.projects[name] = cfg.normalize(name, *p)
	}
	return cfg, nil
}

func (c *Config) normalize(name string, p Project) Project {
	p.Name = name
	p.Root = p.Path
	if !filepath.IsAbs(p.Root) {
		p.Root = filepath.Join(filepath.Dir(c.path), filepath.FromSlash(p.Path))
	}
	p.Root = filepath.Clean(p.Root)
	return p
}

// Path returns the absolute path of projects.yaml.
func (c *Config) Path() string { return c.path }

// Names returns the project names in order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.projects))
	for name := range c.projects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Projects returns every project ordered by name.
func (c *Config) Projects() []Project {
	out := make([]Project, 0, len(c.projects))
	for _, name := range c.Names() {
		out = append(out, c.projects[name])
	}
	return out
}

// Lookup returns the named project.
func (c *Config) Lookup(name string) (Project, error) {
	p, ok := c.projects[name]
	if !ok {
		return Project{}, fmt.Errorf("project %q: %w", name, registry.ErrNotFound)
	}
	return p, nil
}

// Additional returns every project's additional list, for orphan detection.
func (c *Config) Additional() [][]string {
	var out [][]string
	for _, p := range c.Projects() {
		out = append(out, p.Additional)
	}
	return out
}

// Add registers a new project. It fails if the name is taken.
func (c *Config) Add(name string, p Project) error {
	if _, exists := c.projects[name]; exists {
		return fmt.Errorf("project %s already exists", name)
	}
	if p.Path == "" || p.Bundle == "" {
		return fmt.Errorf("project %s: path and bundle are required", name)
	}
	c.projects[name] = c.normalize(name, p)
	return nil
}

// Remove unregisters a project. Files already synced into it are left alone.
func (c *Config) Remove(name string) error {
	if _, exists := c.projects[name]; !exists {
		return fmt.Errorf("project %q: %w", name, registry.ErrNotFound)
	}
	delete(c.projects, name)
	return nil
}

// Save writes the configuration back to projects.yaml.
func (c *Config) Save() error {
	doc := Document{Projects: make(map[string]*Project, len(c.projects))}
	for name, p := range c.projects {
		p := p
		doc.Projects[name] = &p
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling projects config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshaling projects config: %w", err)
	}

	if err := platform.WriteFileAtomic(c.path, buf.Bytes(), platform.FileMode(c.path, 0644)); err != nil {
		return fmt.Errorf("writing projects config: %w", err)
	}
	return nil
}
