package settings

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

const guardSource = `{"hooks":{"PreToolUse":[{"matcher":"Bash","hooks":[{"type":"command","command":"guard.sh"}]}]}}`

const projectTarget = `{
  // project settings
  "model": "opus",
  "hooks": {
    "PreToolUse": [
      {"matcher": "Bash", "hooks": [
        {"type": "command", "command": "mine-1.sh"},
        {"type": "command", "command": "old-managed.sh", "_managed": true},
        {"type": "command", "command": "mine-2.sh"},
      ]}
    ],
    "Stop": [{"hooks": [{"type": "command", "command": "notify.sh"}]}]
  }
}`

const richSource = `{
  "env": {"X": "1"},
  "hooks": {
    "PreToolUse": [
      {"matcher": "Bash", "hooks": [{"type": "command", "command": "guard.sh"}]},
      {"matcher": "Edit", "hooks": [{"type": "command", "command": "fmt.sh"}]}
    ]
  }
}`

type testEntry struct {
	Command string `json:"command"`
	Managed bool   `json:"_managed"`
}

type testGroup struct {
	Matcher string      `json:"matcher"`
	Hooks   []testEntry `json:"hooks"`
}

type testDoc struct {
	Model string                 `json:"model"`
	Env   map[string]string      `json:"env"`
	Hooks map[string][]testGroup `json:"hooks"`
}

func decode(t *testing.T, data []byte) testDoc {
	t.Helper()
	var d testDoc
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, data)
	}
	return d
}

func commands(g testGroup) []string {
	var out []string
	for _, e := range g.Hooks {
		name := e.Command
		if e.Managed {
			name += "*"
		}
		out = append(out, name)
	}
	return out
}

func TestFreshStampsEntries(t *testing.T) {
	got, err := Fresh([]byte(guardSource))
	if err != nil {
		t.Fatalf("Fresh: %v", err)
	}
	want := `{
  "hooks": {
    "PreToolUse": [
      {
        "matcher": "Bash",
        "hooks": [
          {
            "type": "command",
            "command": "guard.sh",
            "_managed": true
          }
        ]
      }
    ]
  }
}
`
	if string(got) != want {
		t.Errorf("Fresh =\n%s\nwant\n%s", got, want)
	}
}

func TestFreshVerbatimWhenAlreadyManaged(t *testing.T) {
	source := []byte(`{"hooks": {"Stop": [{"hooks": [{"command": "x", "_managed": true}]}]}}`)
	got, err := Fresh(source)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, source) {
		t.Errorf("Fresh = %s, want source verbatim", got)
	}
}

func TestMergeEmptyTargetIsFresh(t *testing.T) {
	fresh, _ := Fresh([]byte(guardSource))
	merged, err := Merge([]byte(guardSource), []byte("  \n"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fresh, merged) {
		t.Errorf("Merge into empty target = %s, want %s", merged, fresh)
	}
}

func TestMergeKeepsProjectEntries(t *testing.T) {
	got, err := Merge([]byte(richSource), []byte(projectTarget))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	d := decode(t, got)

	if d.Model != "opus" {
		t.Errorf("model = %q, want it preserved", d.Model)
	}
	if d.Env["X"] != "1" {
		t.Errorf("env = %v, want source-only key added", d.Env)
	}

	pre := d.Hooks["PreToolUse"]
	if len(pre) != 2 {
		t.Fatalf("PreToolUse groups = %d, want 2", len(pre))
	}
	if pre[0].Matcher != "Bash" || !slices.Equal(commands(pre[0]), []string{"mine-1.sh", "mine-2.sh", "guard.sh*"}) {
		t.Errorf("Bash group = %s %v", pre[0].Matcher, commands(pre[0]))
	}
	if pre[1].Matcher != "Edit" || !slices.Equal(commands(pre[1]), []string{"fmt.sh*"}) {
		t.Errorf("Edit group = %s %v", pre[1].Matcher, commands(pre[1]))
	}

	stop := d.Hooks["Stop"]
	if len(stop) != 1 || !slices.Equal(commands(stop[0]), []string{"notify.sh"}) {
		t.Errorf("Stop = %+v, want untouched", stop)
	}

	out := string(got)
	if !(strings.Index(out, `"model"`) < strings.Index(out, `"hooks"`) && strings.Index(out, `"hooks"`) < strings.Index(out, `"env"`)) {
		t.Errorf("top-level key order not preserved:\n%s", out)
	}
}

func TestMergeIdempotent(t *testing.T) {
	once, err := Merge([]byte(richSource), []byte(projectTarget))
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Merge([]byte(richSource), once)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(once, twice) {
		t.Errorf("second merge changed the document:\n%s\nvs\n%s", once, twice)
	}
}

func TestMergeDropsRetiredManagedEntries(t *testing.T) {
	source := `{"hooks":{"PreToolUse":[{"matcher":"Bash","hooks":[]}]}}`
	got, err := Merge([]byte(source), []byte(projectTarget))
	if err != nil {
		t.Fatal(err)
	}
	d := decode(t, got)
	if cmds := commands(d.Hooks["PreToolUse"][0]); !slices.Equal(cmds, []string{"mine-1.sh", "mine-2.sh"}) {
		t.Errorf("Bash group = %v, want only project entries", cmds)
	}
}

func TestMergeLeavesUnnamedGroupsAlone(t *testing.T) {
	target := `{"hooks":{"PreToolUse":[
		{"matcher":"Read","hooks":[{"command":"stale.sh","_managed":true}]},
		{"matcher":"Bash","hooks":[]}
	]}}`
	got, err := Merge([]byte(guardSource), []byte(target))
	if err != nil {
		t.Fatal(err)
	}
	d := decode(t, got)
	pre := d.Hooks["PreToolUse"]
	if !slices.Equal(commands(pre[0]), []string{"stale.sh*"}) {
		t.Errorf("Read group = %v, want untouched", commands(pre[0]))
	}
	if !slices.Equal(commands(pre[1]), []string{"guard.sh*"}) {
		t.Errorf("Bash group = %v", commands(pre[1]))
	}
}

func TestMergeInvalidDocuments(t *testing.T) {
	tests := []struct {
		name           string
		source, target string
	}{
		{"target array", guardSource, `[1, 2]`},
		{"target hooks not object", guardSource, `{"hooks": []}`},
		{"target event not array", guardSource, `{"hooks": {"PreToolUse": {}}}`},
		{"source garbage", `{"hooks": `, `{}`},
		{"source entry not object", `{"hooks":{"Stop":[{"hooks":["x"]}]}}`, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Merge([]byte(tt.source), []byte(tt.target)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestIsManaged(t *testing.T) {
	tests := []struct {
		entry string
		want  bool
	}{
		{`{"command":"x","_managed":true}`, true},
		{`{"command":"x","_managed":false}`, false},
		{`{"command":"x"}`, false},
		{`"x"`, false},
	}
	for _, tt := range tests {
		if got := IsManaged(json.RawMessage(tt.entry)); got != tt.want {
			t.Errorf("IsManaged(%s) = %v, want %v", tt.entry, got, tt.want)
		}
	}
}

func TestManaged(t *testing.T) {
	merged, err := Merge([]byte(richSource), []byte(projectTarget))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Managed(merged)
	if err != nil {
		t.Fatal(err)
	}
	if len(got["PreToolUse"]) != 2 || len(got["Stop"]) != 0 {
		t.Errorf("Managed = %v", got)
	}
}
