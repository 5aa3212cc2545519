package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/agentx-labs/agentsync/internal/fingerprint"
	"github.com/agentx-labs/agentsync/internal/lock"
	"github.com/agentx-labs/agentsync/internal/project"
	"github.com/agentx-labs/agentsync/internal/registry"
)

// Action is the classification of one plan item.
type Action string

const (
	Install         Action = "install"
	Update          Action = "update"
	UpToDate        Action = "up_to_date"
	LocallyModified Action = "locally_modified"
	Conflict        Action = "conflict"
	ProtectedSkip   Action = "protected_skip"
	Prune           Action = "prune"
)

// Actions lists every action in display order.
var Actions = []Action{Install, Update, UpToDate, LocallyModified, Conflict, ProtectedSkip, Prune}

// NeedsForce reports whether the action is only executed under --force.
func (a Action) NeedsForce() bool {
	return a == LocallyModified || a == Conflict
}

// Item is one artifact's classification.
type Item struct {
	ID       string
	Action   Action
	Artifact registry.Artifact // zero for prune items

	Target string // slash-separated, relative to the project root
	Path   string // absolute target path
	Source string // absolute source path; empty for prune items

	RegistryHash    string
	RegistryVersion string
	LockHash        string
	LockFileHash    string // fingerprint of the file as installed
	LockVersion     string
	LiveHash        string // empty when the target is absent or unreadable
	Exists          bool

	// ReadErr is set when the target exists but could not be fingerprinted.
	ReadErr error
}

// Writes reports whether executing the item writes to the project.
func (it Item) Writes(force bool) bool {
	switch it.Action {
	case Install, Update:
		return true
	case LocallyModified, Conflict:
		return force
	}
	return false
}

// Unresolved reports whether the item is left for the operator to decide.
func (it Item) Unresolved(force bool) bool {
	return it.Action.NeedsForce() && !force
}

// Plan is the ordered set of items for one project.
type Plan struct {
	Project         project.Project
	RegistryVersion string
	Items           []Item
}

// Build classifies every artifact in the project's resolved set, plus a
// prune item for each lock entry no longer in it. Items are ordered by
// identifier. Configuration errors from resolution are returned as is.
func Build(p project.Project, reg *registry.Registry, l *lock.Lock) (*Plan, error) {
	set, err := project.ResolvedSet(p, reg)
	if err != nil {
		return nil, err
	}

	pl := &Plan{Project: p, RegistryVersion: reg.Version()}

	for _, id := range set.Sorted() {
		a, err := reg.Lookup(id)
		if err != nil {
			return nil, fmt.Errorf("planning %s: %w", id, err)
		}
		pl.Items = append(pl.Items, classify(p, reg, l, a))
	}

	for _, id := range l.IDs() {
		if set.Has(id) {
			continue
		}
		e, _ := l.Get(id)
		it := Item{
			ID:          id,
			Action:      Prune,
			LockHash:    e.Hash,
			LockVersion: e.Version,
		}
		if a, err := reg.Lookup(id); err == nil {
			it.Artifact = a
			it.Target = a.Target()
			it.Path = p.TargetFile(it.Target)
		}
		pl.Items = append(pl.Items, it)
	}

	slices.SortFunc(pl.Items, func(a, b Item) int { return strings.Compare(a.ID, b.ID) })
	return pl, nil
}

func classify(p project.Project, reg *registry.Registry, l *lock.Lock, a registry.Artifact) Item {
	it := Item{
		ID:              a.ID(),
		Artifact:        a,
		Target:          a.Target(),
		Path:            p.TargetFile(a.Target()),
		Source:          reg.SourceFile(a),
		RegistryHash:    a.Hash,
		RegistryVersion: a.Version,
	}

	entry, locked := l.Get(it.ID)
	if locked {
		it.LockHash = entry.Hash
		it.LockFileHash = entry.FileHash()
		it.LockVersion = entry.Version
	}

	if p.IsProtected(it.Target) {
		it.Action = ProtectedSkip
		return it
	}

	live, err := fingerprint.File(it.Path)
	switch {
	case err == nil:
		it.Exists = true
		it.LiveHash = live
	case errors.Is(err, fs.ErrNotExist):
	default:
		it.Exists = true
		it.ReadErr = err
	}

	it.Action = decide(a.MergeStrategy.IsMerge(), locked, it.Exists, it.LiveHash, it.LockFileHash, it.LockHash, it.RegistryHash)
	return it
}

// decide applies the decision table. The live file is compared with
// lockFile, the registry with lockHash.
func decide(merge, locked, exists bool, live, lockFile, lockHash, regHash string) Action {
	if !locked {
		if exists && !merge {
			return Conflict
		}
		return Install
	}

	registryChanged := regHash != lockHash
	if merge {
		if !exists {
			return Install
		}
		if registryChanged {
			return Update
		}
		return UpToDate
	}

	liveChanged := !exists || live != lockFile
	switch {
	case !liveChanged && !registryChanged:
		return UpToDate
	case !liveChanged:
		return Update
	case !registryChanged:
		return LocallyModified
	default:
		return Conflict
	}
}

// Unresolved returns the items left undecided when run without force.
// With force it is always empty.
func (pl *Plan) Unresolved(force bool) []Item {
	var out []Item
	for _, it := range pl.Items {
		if it.Unresolved(force) {
			out = append(out, it)
		}
	}
	return out
}

// Counts tallies items per action.
func (pl *Plan) Counts() map[Action]int {
	counts := make(map[Action]int, len(Actions))
	for _, it := range pl.Items {
		counts[it.Action]++
	}
	return counts
}

// Pending reports whether executing the plan would change anything.
func (pl *Plan) Pending(force bool) bool {
	for _, it := range pl.Items {
		if it.Writes(force) || it.Action == Prune {
			return true
		}
	}
	return false
}
