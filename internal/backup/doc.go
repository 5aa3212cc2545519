// Package backup keeps zstd-compressed copies of project files that a
// forced sync is about to overwrite.
//
// Snapshots are grouped per run under the backup directory:
//
//	<project>/.agentsync/backups/20260301T120000Z/.claude/agents/foo.md.zst
package backup
