// Package project manages projects.yaml, the list of consumer projects that
// receive artifacts, and computes each project's resolved set: the bundle's
// inherited artifacts plus the project's additions, minus its exclusions.
// Exclusion is always applied last. It also answers whether a target path is
// protected from sync.
package project
