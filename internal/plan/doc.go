// Package plan classifies every artifact of a project into a sync action by
// comparing three fingerprints: the registry's (R), the lock's (L) and the
// live file's (V).
//
//	L present?  V vs L   R vs L   action
//	no          absent   -        install
//	no          present  -        conflict
//	yes         V == L   R == L   up_to_date
//	yes         V == L   R != L   update
//	yes         V != L   R == L   locally_modified
//	yes         V != L   R != L   conflict
//
// A protected target is always protected_skip, checked before any hash.
// A missing file with a lock entry counts as V != L. Artifacts merged with
// the settings-merge strategy share their target with the project, so V is
// not compared for them; a deleted merge target is installed again. V is
// compared with the fingerprint of the bytes actually written, which differs
// from L when the registry recorded a stale hash. Lock entries that left the
// resolved set are pruned.
package plan
