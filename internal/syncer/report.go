package syncer

import (
	"github.com/agentx-labs/agentsync/internal/plan"
)

// Outcome is what happened to one plan item.
type Outcome string

const (
	Applied    Outcome = "applied"
	Skipped    Outcome = "skipped"
	Pruned     Outcome = "pruned"
	Unresolved Outcome = "unresolved"
	Failed     Outcome = "failed"
	Planned    Outcome = "planned" // dry run
)

// Status summarises a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailure Status = "failure"
)

// Exit codes reported by Report.ExitCode.
const (
	ExitOK         = 0
	ExitUnresolved = 2
)

// Result is the outcome of one plan item.
type Result struct {
	Item    plan.Item
	Outcome Outcome
	Backup  string // snapshot written before a forced overwrite
	Warning string // non-fatal, e.g. a source that drifted from its registry hash
	Err     error
}

// Report is the result of Apply. Every item of the plan has exactly one
// result.
type Report struct {
	Project     string
	Plan        *plan.Plan
	Results     []Result
	Force       bool
	DryRun      bool
	LockPath    string
	LockWritten bool
}

// Failed returns the results that failed.
func (r *Report) Failed() []Result { return r.filter(Failed) }

// Unresolved returns the results left for the operator.
func (r *Report) Unresolved() []Result { return r.filter(Unresolved) }

func (r *Report) filter(o Outcome) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == o {
			out = append(out, res)
		}
	}
	return out
}

// Count returns the number of results with outcome o.
func (r *Report) Count(o Outcome) int {
	return len(r.filter(o))
}

// Status is success when nothing failed or was left unresolved, failure
// when something failed and nothing else went through, partial otherwise.
func (r *Report) Status() Status {
	failed, unresolved := r.Count(Failed), r.Count(Unresolved)
	if failed == 0 && unresolved == 0 {
		return StatusSuccess
	}
	if failed > 0 && failed+unresolved == len(r.Results) {
		return StatusFailure
	}
	return StatusPartial
}

// ExitCode is ExitOK on success and ExitUnresolved when any item failed or
// was left unresolved.
func (r *Report) ExitCode() int {
	if r.Status() == StatusSuccess {
		return ExitOK
	}
	return ExitUnresolved
}
