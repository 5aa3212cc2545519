package registry

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/agentx-labs/agentsync/internal/fingerprint"
	"github.com/agentx-labs/agentsync/internal/platform"
	"go.yaml.in/yaml/v3"
)

// RehashOptions tunes Rehash.
type RehashOptions struct {
	// BumpPatch increments the patch version of every artifact whose hash
	// changed.
	BumpPatch bool
}

// Change records one artifact whose hash (and possibly version) was rewritten.
type Change struct {
	ID         string
	OldHash    string
	NewHash    string
	OldVersion string
	NewVersion string
}

// Rehash recomputes every artifact's hash from its source file and returns
// a new registry carrying the fresh values, plus the list of changes. The
// input registry is not modified. A source file that cannot be read aborts
// the rehash.
func Rehash(reg *Registry, opts RehashOptions) (*Registry, []Change, error) {
	next := &Registry{
		path:      reg.path,
		root:      reg.root,
		version:   reg.version,
		artifacts: maps.Clone(reg.artifacts),
		bundles:   reg.bundles,
		resolved:  reg.resolved,
	}

	var changes []Change
	for _, a := range reg.Artifacts() {
		actual, err := fingerprint.File(reg.SourceFile(a))
		if err != nil {
			return nil, nil, fmt.Errorf("hashing %s: %w", a.ID(), err)
		}
		if actual == a.Hash {
			continue
		}

		change := Change{
			ID:         a.ID(),
			OldHash:    a.Hash,
			NewHash:    actual,
			OldVersion: a.Version,
			NewVersion: a.Version,
		}
		if opts.BumpPatch {
			bumped, err := bumpPatch(a.Version)
			if err != nil {
				return nil, nil, fmt.Errorf("bumping version of %s: %w", a.ID(), err)
			}
			change.NewVersion = bumped
		}

		updated := a
		updated.Hash = change.NewHash
		updated.Version = change.NewVersion
		next.artifacts[a.ID()] = updated
		changes = append(changes, change)
	}

	return next, changes, nil
}

func bumpPatch(version string) (string, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return "", err
	}
	next := v.IncPatch()
	if strings.HasPrefix(version, "v") {
		return "v" + next.String(), nil
	}
	return next.String(), nil
}

// WriteChanges patches the registry document at path in place, rewriting
// only the hash and version scalars named by changes. Comments, key order
// and unrelated entries are preserved.
func WriteChanges(path string, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading registry: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing registry: %w", err)
	}
	if len(doc.Content) == 0 {
		return fmt.Errorf("registry %s is empty", path)
	}

	artifacts := mappingValue(doc.Content[0], "artifacts")
	if artifacts == nil {
		return fmt.Errorf("registry %s has no artifacts section", path)
	}

	for _, c := range changes {
		category, name, ok := ParseID(c.ID)
		if !ok {
			return fmt.Errorf("invalid identifier %q", c.ID)
		}
		entry := mappingValue(mappingValue(artifacts, category), name)
		if entry == nil {
			return fmt.Errorf("artifact %s: %w in %s", c.ID, ErrNotFound, path)
		}
		setScalar(entry, "hash", c.NewHash)
		if c.NewVersion != c.OldVersion {
			setScalar(entry, "version", c.NewVersion)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	return platform.WriteFileAtomic(path, buf.Bytes(), platform.FileMode(path, 0644))
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// setScalar sets key to a double-quoted string, appending the key if absent.
// Quoting keeps hex hashes such as "12e4..." from being read back as numbers.
func setScalar(node *yaml.Node, key, value string) {
	if v := mappingValue(node, key); v != nil {
		v.Kind = yaml.ScalarNode
		v.Tag = "!!str"
		v.Style = yaml.DoubleQuotedStyle
		v.Value = value
		return
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: value},
	)
}
