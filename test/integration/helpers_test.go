//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to an isolated registry and two consumer projects.
type testEnv struct {
	RegistryDir  string // registry root holding registry.yaml and sources
	RegistryPath string
	ProjectsPath string // projects.yaml, next to the project directories
	WorkDir      string
}

// setupTestEnv creates a registry with bundles core and web (extends core),
// and a projects.yaml with projects "site" (web) and "tool" (core).
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		RegistryDir: t.TempDir(),
		WorkDir:     t.TempDir(),
	}
	env.RegistryPath = filepath.Join(env.RegistryDir, "registry.yaml")
	env.ProjectsPath = filepath.Join(env.WorkDir, "projects.yaml")

	writeFile(t, filepath.Join(env.RegistryDir, "agents", "reviewer.md"), "# Reviewer\nReview every change.\n")
	writeFile(t, filepath.Join(env.RegistryDir, "agents", "designer.md"), "# Designer\nKeep the UI consistent.\n")
	writeFile(t, filepath.Join(env.RegistryDir, "scripts", "lint.sh"), "#!/bin/sh\nexec golangci-lint run\n")
	writeFile(t, filepath.Join(env.RegistryDir, "settings", "settings.json"),
		`{"hooks":{"PreToolUse":[{"matcher":"Bash","hooks":[{"type":"command","command":"scripts/lint.sh"}]}]}}`)
	if err := os.Chmod(filepath.Join(env.RegistryDir, "scripts", "lint.sh"), 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, env.RegistryPath, `version: "2026.3.0"
artifacts:
  agents:
    reviewer:
      version: "1.0.0"
      hash: "0"
      source_path: agents/reviewer.md
      target_path: .claude/agents/reviewer.md
    designer:
      version: "1.0.0"
      hash: "0"
      source_path: agents/designer.md
      target_path: .claude/agents/designer.md
  scripts:
    lint:
      version: "1.0.0"
      hash: "0"
      source_path: scripts/lint.sh
  config:
    settings:
      version: "1.0.0"
      hash: "0"
      source_path: settings/settings.json
      target_path: .claude/settings.json
      merge_strategy: settings-merge
bundles:
  core:
    description: Every project
    includes:
      - agents/reviewer
      - scripts/lint
      - config/settings
  web:
    extends: core
    includes:
      - agents/designer
`)

	writeFile(t, env.ProjectsPath, `projects:
  site:
    path: site
    bundle: web
    protected:
      - .claude/agents/designer.md
  tool:
    path: tool
    bundle: core
    excluded:
      - scripts/lint
`)
	return env
}

func (env *testEnv) projectFile(name, rel string) string {
	return filepath.Join(env.WorkDir, name, filepath.FromSlash(rel))
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
