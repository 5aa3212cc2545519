// Package settings merges the hook entries of a source settings document
// into a project's copy without disturbing entries the project owns.
//
// The document looks like
//
//	{"hooks": {"PreToolUse": [{"matcher": "Bash", "hooks": [{...}, {...}]}]}}
//
// An entry carrying "_managed": true belongs to the sync engine. Every
// other entry belongs to the project and is carried through a merge byte
// for byte, in its original relative order. Targets may be JSONC.
package settings
