package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an identifier or bundle is not in the registry.
	ErrNotFound = errors.New("not found")
	// ErrCycle is returned when bundle inheritance loops back on itself.
	ErrCycle = errors.New("cyclic bundle inheritance")
)

// ConfigError reports a structural problem in a registry or project
// document. It is fatal: callers must stop before touching any project.
type ConfigError struct {
	Source   string   // document path, or a short label
	Problems []string // one line per problem
	Err      error    // optional sentinel (ErrCycle, ErrNotFound)
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid configuration in %s", e.Source)
	if len(e.Problems) == 1 {
		b.WriteString(": ")
		b.WriteString(e.Problems[0])
		return b.String()
	}
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
