// Package registry loads and validates the artifact registry: every syncable
// artifact (grouped by category) and every bundle definition (with
// single-parent inheritance through extends). A loaded Registry is an
// immutable value. Bundle resolutions are computed once during load, cycles
// and dangling references are rejected as configuration errors, and orphaned
// artifacts (reachable from no bundle and no project addition) can be listed.
// The package also verifies and recomputes the content hashes recorded for
// each artifact.
package registry
