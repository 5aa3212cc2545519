package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "agentsync" {
		t.Errorf("CLIName() = %q, want %q", got, "agentsync")
	}
	if got := HomeDir(); got != ".agentsync" {
		t.Errorf("HomeDir() = %q, want %q", got, ".agentsync")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("lock_file"); got != "AGENTSYNC_LOCK_FILE" {
		t.Errorf("EnvVar(lock_file) = %q, want %q", got, "AGENTSYNC_LOCK_FILE")
	}
}
