// Package cli defines the Cobra command tree for the agentsync CLI. Each file
// registers one top-level command with the root command. Commands load the
// registry and project configuration, delegate to the engine packages and
// only handle flags, output and exit codes.
package cli
