// Package lock reads and writes the per-project lock document that records
// what a sync actually installed.
//
// The lock lives at <project>/.agentsync/lock.json by default. It is read
// once at the start of a sync and rewritten in full, atomically, at the end.
package lock
