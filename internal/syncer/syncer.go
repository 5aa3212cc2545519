package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/agentx-labs/agentsync/internal/backup"
	"github.com/agentx-labs/agentsync/internal/fingerprint"
	"github.com/agentx-labs/agentsync/internal/lock"
	"github.com/agentx-labs/agentsync/internal/plan"
	"github.com/agentx-labs/agentsync/internal/platform"
	"github.com/agentx-labs/agentsync/internal/project"
	"github.com/agentx-labs/agentsync/internal/registry"
	"github.com/agentx-labs/agentsync/internal/settings"
)

// BackupDir is the backup directory relative to the project root.
const BackupDir = ".agentsync/backups"

// Request describes one sync run.
type Request struct {
	Project  project.Project
	Registry *registry.Registry
	LockPath string // absolute, or relative to the project root

	Force  bool
	DryRun bool
	Backup bool // snapshot files before a forced overwrite

	Logger *slog.Logger
	Now    func() time.Time
}

// LockPath returns the lock file of p. rel is absolute, or relative to the
// project root.
func LockPath(p project.Project, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return p.TargetFile(rel)
}

// Apply plans and executes a sync of req.Project. Configuration errors and
// an unreadable lock are returned before anything is written. Per-item
// failures are recorded in the report. The returned error is non-nil only
// when the run could not start or the lock could not be saved.
func Apply(ctx context.Context, req Request) (*Report, error) {
	log := req.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := req.Now
	if now == nil {
		now = time.Now
	}
	log = log.With("project", req.Project.Name)

	lockPath := LockPath(req.Project, req.LockPath)
	l, err := lock.Load(lockPath, req.Project.Name)
	if err != nil {
		return nil, err
	}

	pl, err := plan.Build(req.Project, req.Registry, l)
	if err != nil {
		return nil, err
	}

	ex := &executor{
		req:  req,
		log:  log,
		lock: l,
		now:  now().UTC(),
	}
	if req.Backup && req.Force && !req.DryRun {
		ex.backups = backup.New(filepath.Join(req.Project.Root, filepath.FromSlash(BackupDir)), ex.now)
	}

	report := &Report{
		Project:  req.Project.Name,
		Plan:     pl,
		Force:    req.Force,
		DryRun:   req.DryRun,
		LockPath: lockPath,
	}

	for i, it := range pl.Items {
		if err := ctx.Err(); err != nil {
			for _, rest := range pl.Items[i:] {
				report.Results = append(report.Results, Result{Item: rest, Outcome: Failed, Err: err})
			}
			log.Warn("sync cancelled", "remaining", len(pl.Items)-i, "error", err)
			break
		}
		res := ex.apply(it)
		if res.Err != nil {
			log.Warn("sync item failed", "id", it.ID, "action", it.Action, "error", res.Err)
		} else {
			log.Debug("sync item", "id", it.ID, "action", it.Action, "outcome", res.Outcome)
		}
		report.Results = append(report.Results, res)
	}

	if req.DryRun || !ex.changed {
		return report, nil
	}

	l.Stamp(req.Registry.Version(), ex.now)
	if err := l.Save(lockPath); err != nil {
		return report, err
	}
	report.LockWritten = true
	return report, nil
}

type executor struct {
	req     Request
	log     *slog.Logger
	lock    *lock.Lock
	now     time.Time
	backups *backup.Store
	changed bool
}

func (ex *executor) apply(it plan.Item) Result {
	res := Result{Item: it}

	switch {
	case it.Action == plan.UpToDate || it.Action == plan.ProtectedSkip:
		res.Outcome = Skipped
		return res
	case it.Action == plan.Prune:
		res.Outcome = Pruned
		if !ex.req.DryRun {
			ex.lock.Remove(it.ID)
			ex.changed = true
		}
		return res
	case it.Unresolved(ex.req.Force):
		res.Outcome = Unresolved
		return res
	}

	if ex.req.DryRun {
		res.Outcome = Planned
		return res
	}

	written, err := ex.write(&res)
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		return res
	}
	if res.Warning != "" {
		ex.log.Warn("source differs from registry hash", "id", it.ID, "detail", res.Warning)
	}

	ex.lock.Set(it.ID, lock.Entry{
		Version:     it.Artifact.Version,
		Hash:        it.RegistryHash,
		ContentHash: written,
		InstalledAt: ex.now,
	})
	ex.changed = true
	res.Outcome = Applied
	return res
}

// write installs one artifact, recording any backup taken on res. A source
// that no longer matches its registry hash is still installed; the lock keeps
// the registry's version and hash and res carries a warning. For a copied
// file the fingerprint of the stale bytes is returned so later runs compare
// the live file against what was actually written.
func (ex *executor) write(res *Result) (string, error) {
	it := res.Item
	data, err := os.ReadFile(it.Source)
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	sum := fingerprint.Sum(data)
	if sum != it.RegistryHash {
		res.Warning = fmt.Sprintf("source %s hashes to %s, registry records %s; run verify or rehash",
			it.Artifact.SourcePath, sum, it.RegistryHash)
	}

	if ex.backups != nil && it.Action.NeedsForce() && it.Exists && it.LiveHash != sum {
		res.Backup, err = ex.backups.SaveFile(it.Target, it.Path)
		if err != nil {
			return "", err
		}
	}

	if it.Artifact.MergeStrategy.IsMerge() {
		return "", ex.merge(it, data)
	}
	if err := platform.WriteFileAtomic(it.Path, data, platform.FileMode(it.Source, 0644)); err != nil {
		return "", err
	}
	if sum == it.RegistryHash {
		return "", nil
	}
	return sum, nil
}

func (ex *executor) merge(it plan.Item, source []byte) error {
	existing, err := os.ReadFile(it.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading settings target: %w", err)
	}

	var merged []byte
	if existing == nil {
		merged, err = settings.Fresh(source)
	} else {
		merged, err = settings.Merge(source, existing)
	}
	if err != nil {
		return err
	}
	return platform.WriteFileAtomic(it.Path, merged, platform.FileMode(it.Path, 0644))
}
