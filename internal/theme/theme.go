package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/devcomb/theia/internal/view"
)

// Theme maps semantic scope names to style classes of the active color
// theme. Lookups are pure and never fail: unknown scopes resolve to the
// empty style.
type Theme struct {
	styles map[string]view.Style
}

// New builds a Theme from a scope → style-class map.
func New(styles map[string]string) *Theme {
	t := &Theme{styles: make(map[string]view.Style, len(styles))}
	for scope, style := range styles {
		t.styles[scope] = view.Style(style)
	}
	return t
}

type themeFile struct {
	Name   string            `json:"name,omitempty"`
	Scopes map[string]string `json:"scopes"`
}

// Load reads a JSON theme file of the form {"scopes": {"keyword": "mtk5"}}.
func Load(path string) (*Theme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var file themeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse theme file %s: %w", path, err)
	}

	return New(file.Scopes), nil
}

// Default returns a small builtin theme so the server is usable without
// configuration.
func Default() *Theme {
	return New(map[string]string{
		"comment":  "hl-comment",
		"constant": "hl-constant",
		"entity":   "hl-entity",
		"keyword":  "hl-keyword",
		"storage":  "hl-storage",
		"string":   "hl-string",
		"support":  "hl-support",
		"variable": "hl-variable",
	})
}

// Resolve maps a scope name to a style class. Scopes fall back along their
// dot-separated hierarchy: "string.quoted.double" tries "string.quoted" and
// then "string" before giving up with the empty style.
func (t *Theme) Resolve(scope string) view.Style {
	for s := scope; s != ""; {
		if style, ok := t.styles[s]; ok {
			return style
		}
		i := strings.LastIndex(s, ".")
		if i < 0 {
			break
		}
		s = s[:i]
	}
	return ""
}
