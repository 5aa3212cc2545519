package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/agentx-labs/agentsync/internal/platform"
	"github.com/agentx-labs/agentsync/internal/registry"
	"github.com/agentx-labs/agentsync/internal/schema"
)

// Version is the lock document format written by this build.
const Version = 1

// Entry records one installed artifact. Hash is the registry's hash at
// install time. ContentHash is set only when the bytes written fingerprint
// differently, which happens when the registry hash was stale.
type Entry struct {
	Version     string    `json:"version"`
	Hash        string    `json:"hash"`
	ContentHash string    `json:"content_hash,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

// FileHash is the fingerprint the installed file had when written.
func (e Entry) FileHash() string {
	if e.ContentHash != "" {
		return e.ContentHash
	}
	return e.Hash
}

// Lock is the lock document of a single project.
type Lock struct {
	LockVersion     int              `json:"lock_version"`
	Project         string           `json:"project"`
	SyncedAt        *time.Time       `json:"synced_at,omitempty"`
	RegistryVersion string           `json:"registry_version,omitempty"`
	Installed       map[string]Entry `json:"installed"`
}

// New returns an empty lock for project.
func New(project string) *Lock {
	return &Lock{
		LockVersion: Version,
		Project:     project,
		Installed:   make(map[string]Entry),
	}
}

// Load reads the lock at path. A missing file yields an empty lock for
// project; that is the state before the first sync.
func Load(path, project string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(project), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lock: %w", err)
	}

	result, err := schema.ValidateJSON(schema.KindLock, data)
	if err != nil {
		return nil, &registry.ConfigError{Source: path, Problems: []string{err.Error()}}
	}
	if !result.Valid {
		problems := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			problems = append(problems, issue.String())
		}
		return nil, &registry.ConfigError{Source: path, Problems: problems}
	}

	var l Lock
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, &registry.ConfigError{Source: path, Problems: []string{err.Error()}}
	}
	if l.Installed == nil {
		l.Installed = make(map[string]Entry)
	}
	return &l, nil
}

// Save writes the lock to path, replacing any previous document atomically.
func (l *Lock) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling lock: %w", err)
	}
	data = append(data, '\n')

	if err := platform.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("writing lock: %w", err)
	}
	return nil
}

// Get returns the entry recorded for id.
func (l *Lock) Get(id string) (Entry, bool) {
	e, ok := l.Installed[id]
	return e, ok
}

// Set records an installed artifact.
func (l *Lock) Set(id string, e Entry) {
	if l.Installed == nil {
		l.Installed = make(map[string]Entry)
	}
	l.Installed[id] = e
}

// Remove drops the entry for id. The installed file is not touched.
func (l *Lock) Remove(id string) {
	delete(l.Installed, id)
}

// IDs returns the recorded identifiers in order.
func (l *Lock) IDs() []string {
	ids := make([]string, 0, len(l.Installed))
	for id := range l.Installed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Stamp marks the lock as written by a sync against registryVersion at now.
func (l *Lock) Stamp(registryVersion string, now time.Time) {
	now = now.UTC()
	l.LockVersion = Version
	l.SyncedAt = &now
	l.RegistryVersion = registryVersion
}

// Clone returns a deep copy so a caller can mutate it without touching l.
func (l *Lock) Clone() *Lock {
	out := *l
	out.Installed = make(map[string]Entry, len(l.Installed))
	for id, e := range l.Installed {
		out.Installed[id] = e
	}
	if l.SyncedAt != nil {
		t := *l.SyncedAt
		out.SyncedAt = &t
	}
	return &out
}
