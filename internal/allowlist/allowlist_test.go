package allowlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsAllowed(t *testing.T) {
	a := New("/Users/test/Secret", "/Users/test/Projects/Keep")

	tests := []struct {
		path string
		want bool
	}{
		{"/Users/test/Secret", true},
		{"/Users/test/Secret/file.txt", true},
		{"/Users/test/Projects/Keep", true},
		{"/Users/test/Projects/DeleteMe", false},
		{"/Users/test/Public", false},
		{"/Users/test", false},
		// Byte-prefix matching, not path-segment matching.
		{"/Users/test/Projects/KeepExtra", true},
		{"/Users/test/SecretStash", true},
	}

	for _, tt := range tests {
		if got := a.IsAllowed(tt.path); got != tt.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsAllowedVirtualPath(t *testing.T) {
	a := New("docker://abc123")

	if !a.IsAllowed("docker://abc123/<none>:<none>") {
		t.Error("expected docker image to be protected by its id prefix")
	}
	if a.IsAllowed("docker://def456/<none>:<none>") {
		t.Error("unexpected match for a different image id")
	}
}

func TestEmptyAllowlist(t *testing.T) {
	var nilList *Allowlist
	if nilList.IsAllowed("/anything") {
		t.Error("nil allowlist should allow nothing")
	}
	if New().IsAllowed("/anything") {
		t.Error("empty allowlist should allow nothing")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowlist.txt")
	content := "# keep my stuff\n\n  /Users/me/Keep  \n#/Users/me/NotARule\n\t\n/opt/cache\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	a := LoadFile(path)
	rules := a.Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d: %q", len(rules), rules)
	}
	if rules[0] != "/Users/me/Keep" || rules[1] != "/opt/cache" {
		t.Errorf("unexpected rules: %q", rules)
	}
	if a.IsAllowed("/Users/me/NotARule") {
		t.Error("commented line must not become a rule")
	}
}

func TestLoadFileMissing(t *testing.T) {
	a := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if a == nil {
		t.Fatal("LoadFile returned nil")
	}
	if a.Len() != 0 {
		t.Errorf("expected empty allowlist, got %d rules", a.Len())
	}
}

func TestNewDropsCommentsAndBlanks(t *testing.T) {
	a := New("", "   ", "# comment", " /tmp/keep ")
	if a.Len() != 1 {
		t.Fatalf("expected 1 rule, got %d", a.Len())
	}
	if !a.IsAllowed("/tmp/keep/file") {
		t.Error("trimmed rule should match")
	}
}
