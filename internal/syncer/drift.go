package syncer

import (
	"errors"
	"io/fs"

	"github.com/agentx-labs/agentsync/internal/fingerprint"
	"github.com/agentx-labs/agentsync/internal/lock"
	"github.com/agentx-labs/agentsync/internal/project"
	"github.com/agentx-labs/agentsync/internal/registry"
)

// DriftState classifies one installed file against its lock entry.
type DriftState string

const (
	DriftClean    DriftState = "clean"
	DriftModified DriftState = "modified"
	DriftMissing  DriftState = "missing"
	DriftMerged   DriftState = "merged"  // jointly owned, not compared
	DriftUnknown  DriftState = "unknown" // lock entry no longer in the registry
)

// Drift is one lock entry checked against the project.
type Drift struct {
	ID       string
	Target   string
	State    DriftState
	LockHash string
	LiveHash string
	Err      error
}

// Drifted reports whether the entry needs attention.
func (d Drift) Drifted() bool {
	return d.State == DriftModified || d.State == DriftMissing || d.Err != nil
}

// CheckDrift compares every file recorded in l with its recorded hash.
func CheckDrift(p project.Project, reg *registry.Registry, l *lock.Lock) []Drift {
	var out []Drift
	for _, id := range l.IDs() {
		e, _ := l.Get(id)
		d := Drift{ID: id, LockHash: e.Hash}

		a, err := reg.Lookup(id)
		if err != nil {
			d.State = DriftUnknown
			out = append(out, d)
			continue
		}
		d.Target = a.Target()
		if a.MergeStrategy.IsMerge() {
			d.State = DriftMerged
			out = append(out, d)
			continue
		}

		live, err := fingerprint.File(p.TargetFile(d.Target))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			d.State = DriftMissing
		case err != nil:
			d.State = DriftModified
			d.Err = err
		case live != e.FileHash():
			d.State = DriftModified
			d.LiveHash = live
		default:
			d.State = DriftClean
			d.LiveHash = live
		}
		out = append(out, d)
	}
	return out
}
