package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func testPath(name string) string {
	return filepath.Join("testdata", name)
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(testPath(name))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestValidateYAML_Valid(t *testing.T) {
	tests := []struct {
		file string
		kind Kind
	}{
		{"valid-registry.yaml", KindRegistry},
		{"valid-projects.yaml", KindProjects},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateYAML(tt.kind, readTestdata(t, tt.file))
			if err != nil {
				t.Fatalf("ValidateYAML(%s) error: %v", tt.file, err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
			if result.Err() != nil {
				t.Errorf("Err() = %v, want nil", result.Err())
			}
		})
	}
}

func TestValidateYAML_Invalid(t *testing.T) {
	tests := []struct {
		file string
		kind Kind
		desc string
	}{
		{"invalid-registry-missing-hash.yaml", KindRegistry, "artifact missing hash"},
		{"invalid-registry-bad-strategy.yaml", KindRegistry, "unknown merge strategy"},
		{"invalid-registry-bad-include.yaml", KindRegistry, "include is not category/name"},
		{"invalid-projects-missing-bundle.yaml", KindProjects, "project missing bundle"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateYAML(tt.kind, readTestdata(t, tt.file))
			if err != nil {
				t.Fatalf("ValidateYAML(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Fatalf("expected invalid for %s (%s), got valid", tt.file, tt.desc)
			}
			if len(result.Issues) == 0 {
				t.Errorf("expected at least one issue for %s", tt.file)
			}
			if result.Err() == nil {
				t.Error("Err() = nil, want error")
			}
		})
	}
}

func TestValidateYAML_NotYAML(t *testing.T) {
	if _, err := ValidateYAML(KindRegistry, readTestdata(t, "invalid-not-yaml.yaml")); err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestValidateJSON_Lock(t *testing.T) {
	valid := []byte(`{
  "lock_version": 1,
  "project": "web",
  "synced_at": "2026-01-02T03:04:05Z",
  "registry_version": "2.4.0",
  "installed": {
    "agents/reviewer": {"version": "1.0.0", "hash": "0123456789abcdef", "installed_at": "2026-01-02T03:04:05Z"}
  }
}`)
	result, err := ValidateJSON(KindLock, valid)
	if err != nil {
		t.Fatalf("ValidateJSON error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid lock, got issues: %v", result.Err())
	}

	wrongVersion := []byte(`{"lock_version": 7, "project": "web", "installed": {}}`)
	result, err = ValidateJSON(KindLock, wrongVersion)
	if err != nil {
		t.Fatalf("ValidateJSON error: %v", err)
	}
	if result.Valid {
		t.Error("expected lock_version 7 to be rejected")
	}
}

func TestIssueFieldsPopulated(t *testing.T) {
	result, err := ValidateYAML(KindRegistry, readTestdata(t, "invalid-registry-missing-hash.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	hasMessage := false
	for _, issue := range result.Issues {
		if issue.Message != "" {
			hasMessage = true
		}
	}
	if !hasMessage {
		t.Error("expected at least one issue with a non-empty message")
	}
}

func TestSchemasCompile(t *testing.T) {
	for _, kind := range Kinds {
		s, err := getSchema(kind)
		if err != nil {
			t.Fatalf("getSchema(%s) error: %v", kind, err)
		}
		if s == nil {
			t.Fatalf("getSchema(%s) returned nil", kind)
		}
	}
	if _, err := getSchema("bogus"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
