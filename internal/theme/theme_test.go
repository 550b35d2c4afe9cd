package theme_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devcomb/theia/internal/theme"
	"github.com/devcomb/theia/internal/view"
)

func TestResolve(t *testing.T) {
	th := theme.New(map[string]string{
		"string":        "hl-string",
		"string.quoted": "hl-string-quoted",
		"keyword":       "hl-keyword",
	})

	tests := []struct {
		scope string
		want  view.Style
	}{
		{"string", "hl-string"},
		{"string.quoted", "hl-string-quoted"},
		{"string.quoted.double", "hl-string-quoted"},
		{"string.interpolated", "hl-string"},
		{"keyword.control.flow", "hl-keyword"},
		{"variable", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := th.Resolve(tt.scope); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.scope, got, tt.want)
		}
	}
}

func TestDefaultCoversCommonScopes(t *testing.T) {
	th := theme.Default()
	for _, scope := range []string{"keyword", "string", "comment.line"} {
		if th.Resolve(scope) == "" {
			t.Errorf("default theme has no style for %q", scope)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.json")
	content := `{"name": "test", "scopes": {"keyword": "mtk5", "string": "mtk7"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := theme.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := th.Resolve("keyword.operator"); got != "mtk5" {
		t.Errorf("Resolve(keyword.operator) = %q, want mtk5", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := theme.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of missing file did not error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := theme.Load(path); err == nil {
		t.Error("Load of malformed file did not error")
	}
}
