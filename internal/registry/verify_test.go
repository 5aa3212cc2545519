package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/agentsync/internal/fingerprint"
)

func hashedRegistry(t *testing.T, body string) string {
	t.Helper()
	doc := `version: "1.0.0"
# curated by hand
artifacts:
  agents:
    foo:
      version: "1.0.0"
      hash: "` + fingerprint.Sum([]byte(body)) + `"
      source_path: agents/foo.md
bundles:
  core:
    includes: [agents/foo]
`
	return writeRegistry(t, doc, map[string]string{"agents/foo.md": body})
}

func TestVerifyClean(t *testing.T) {
	reg, err := Load(hashedRegistry(t, "# foo\n"))
	if err != nil {
		t.Fatal(err)
	}
	if m := Verify(reg); len(m) != 0 {
		t.Errorf("Verify = %+v, want no mismatches", m)
	}
}

func TestVerifyDetectsEditAndMissingSource(t *testing.T) {
	path := hashedRegistry(t, "# foo\n")
	reg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := reg.Lookup("agents/foo")

	if err := os.WriteFile(reg.SourceFile(a), []byte("# foo edited\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m := Verify(reg)
	if len(m) != 1 || m[0].ID != "agents/foo" {
		t.Fatalf("Verify = %+v, want one mismatch for agents/foo", m)
	}
	if m[0].Actual != fingerprint.Sum([]byte("# foo edited\n")) {
		t.Errorf("Actual = %q", m[0].Actual)
	}

	if err := os.Remove(reg.SourceFile(a)); err != nil {
		t.Fatal(err)
	}
	m = Verify(reg)
	if len(m) != 1 || m[0].Err == nil {
		t.Errorf("Verify = %+v, want one unreadable-source mismatch", m)
	}
}

func TestRehashAndWriteChanges(t *testing.T) {
	path := hashedRegistry(t, "# foo\n")
	reg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := reg.Lookup("agents/foo")
	if err := os.WriteFile(reg.SourceFile(a), []byte("# foo v2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	next, changes, err := Rehash(reg, RehashOptions{BumpPatch: true})
	if err != nil {
		t.Fatalf("Rehash: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %+v, want 1", changes)
	}
	c := changes[0]
	wantHash := fingerprint.Sum([]byte("# foo v2\n"))
	if c.NewHash != wantHash || c.NewVersion != "1.0.1" {
		t.Errorf("change = %+v, want hash %s version 1.0.1", c, wantHash)
	}

	// The input registry is untouched; the returned one carries the update.
	old, _ := reg.Lookup("agents/foo")
	if old.Hash == wantHash {
		t.Error("Rehash mutated its input")
	}
	updated, _ := next.Lookup("agents/foo")
	if updated.Hash != wantHash || updated.Version != "1.0.1" {
		t.Errorf("rehashed artifact = %+v", updated)
	}

	if err := WriteChanges(path, changes); err != nil {
		t.Fatalf("WriteChanges: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "# curated by hand") {
		t.Error("WriteChanges dropped the document comment")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if m := Verify(reloaded); len(m) != 0 {
		t.Errorf("Verify after rehash = %+v", m)
	}
	got, _ := reloaded.Lookup("agents/foo")
	if got.Version != "1.0.1" {
		t.Errorf("Version after rehash = %q, want 1.0.1", got.Version)
	}
}

func TestRehashNoChanges(t *testing.T) {
	path := hashedRegistry(t, "# foo\n")
	reg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	_, changes, err := Rehash(reg, RehashOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %+v, want none", changes)
	}
	if err := WriteChanges(filepath.Join(t.TempDir(), "absent.yaml"), changes); err != nil {
		t.Errorf("WriteChanges with no changes should be a no-op: %v", err)
	}
}

func TestBumpPatch(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.0.0", "1.0.1"},
		{"v2.3.9", "v2.3.10"},
		{"0.1.0-beta.1", "0.1.0"},
	}
	for _, tt := range tests {
		got, err := bumpPatch(tt.in)
		if err != nil {
			t.Fatalf("bumpPatch(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("bumpPatch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
