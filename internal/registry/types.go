package registry

import (
	"path"
	"strings"
)

// MergeStrategy selects how an artifact is written into a project.
type MergeStrategy string

const (
	// MergeCopy replaces the target file with the source content. The empty
	// strategy means the same thing.
	MergeCopy MergeStrategy = "copy"
	// MergeSettings merges managed hook entries into a jointly-owned
	// settings document.
	MergeSettings MergeStrategy = "settings-merge"
)

// Valid reports whether s is a known strategy.
func (s MergeStrategy) Valid() bool {
	switch s {
	case "", MergeCopy, MergeSettings:
		return true
	}
	return false
}

// IsMerge reports whether the strategy writes by merging rather than copying.
func (s MergeStrategy) IsMerge() bool {
	return s == MergeSettings
}

// Artifact is a single versioned, hashed unit of syncable content.
type Artifact struct {
	Category      string        `yaml:"-" json:"category"`
	Name          string        `yaml:"-" json:"name"`
	Version       string        `yaml:"version" json:"version"`
	Hash          string        `yaml:"hash" json:"hash"`
	SourcePath    string        `yaml:"source_path" json:"source_path"`
	TargetPath    string        `yaml:"target_path,omitempty" json:"target_path,omitempty"`
	Description   string        `yaml:"description,omitempty" json:"description,omitempty"`
	Dependencies  []string      `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	MergeStrategy MergeStrategy `yaml:"merge_strategy,omitempty" json:"merge_strategy,omitempty"`
}

// ID returns the canonical "category/name" identifier.
func (a Artifact) ID() string {
	return a.Category + "/" + a.Name
}

// Target returns the slash-separated path of the artifact inside a project.
// It defaults to the source path.
func (a Artifact) Target() string {
	if a.TargetPath != "" {
		return path.Clean(a.TargetPath)
	}
	return path.Clean(a.SourcePath)
}

// Bundle is a named, inheritable set of artifact identifiers.
type Bundle struct {
	Name        string   `yaml:"-" json:"name"`
	Extends     string   `yaml:"extends,omitempty" json:"extends,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Includes    []string `yaml:"includes,omitempty" json:"includes,omitempty"`
}

// Document is the on-disk shape of registry.yaml.
type Document struct {
	Version     string                          `yaml:"version,omitempty"`
	Description string                          `yaml:"description,omitempty"`
	Artifacts   map[string]map[string]*Artifact `yaml:"artifacts"`
	Bundles     map[string]*Bundle              `yaml:"bundles,omitempty"`
}

// ParseID splits an identifier into category and name.
func ParseID(id string) (category, name string, ok bool) {
	category, name, ok = strings.Cut(id, "/")
	if !ok || category == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return category, name, true
}
