// Package config manages operator settings stored at ~/.agentsync/config.yaml,
// overridable through AGENTSYNC_* environment variables and command-line
// flags. Settings locate the registry and projects documents, name the
// per-project lock file, and tune logging and backups.
package config
