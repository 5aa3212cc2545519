// Package syncer executes a sync plan against one project.
//
// Items are applied in identifier order. A failing item is recorded and the
// run moves on; cancellation is honoured between items, never inside a
// copy or merge. The lock is read once and, when anything changed,
// rewritten once at the end.
package syncer
