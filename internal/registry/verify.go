package registry

import (
	"github.com/agentx-labs/agentsync/internal/fingerprint"
)

// Mismatch is an artifact whose recorded hash disagrees with its source file.
type Mismatch struct {
	ID       string
	Source   string // absolute source path
	Recorded string // hash in registry.yaml
	Actual   string // freshly computed hash; empty when Err is set
	Err      error  // source unreadable
}

// Verify recomputes every artifact's source hash and reports the ones that
// do not match. A mismatch is a curation error in the registry, not a sync
// failure.
func Verify(reg *Registry) []Mismatch {
	var out []Mismatch
	for _, a := range reg.Artifacts() {
		src := reg.SourceFile(a)
		actual, err := fingerprint.File(src)
		if err != nil {
			out = append(out, Mismatch{ID: a.ID(), Source: src, Recorded: a.Hash, Err: err})
			continue
		}
		if actual != a.Hash {
			out = append(out, Mismatch{ID: a.ID(), Source: src, Recorded: a.Hash, Actual: actual})
		}
	}
	return out
}
