package cli

import (
	"errors"

	"github.com/agentx-labs/agentsync/internal/syncer"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitUnresolved = syncer.ExitUnresolved
)

// exitError is returned by commands whose outcome was already printed but
// must still fail the process with a specific code.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}
