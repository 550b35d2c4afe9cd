package highlight

import "github.com/devcomb/theia/internal/view"

// ResolveFunc maps a scope name to a style class. It is injected from the
// host theme and must be a pure lookup; unknown scopes map to the empty
// style rather than failing.
type ResolveFunc func(scope string) view.Style

// ApplyDecorations exchanges the previously applied decoration handles for
// a fresh set covering merged, in a single atomic call on the view.
//
// The style of each decoration comes from the first (narrowest) scope of
// its range; ranges without scopes render unstyled. The returned handles
// correspond positionally to merged, and old handles are invalid once the
// call returns without error. A concurrently closed view yields no handles
// and no error.
func ApplyDecorations(
	v view.DecorationView,
	resolve ResolveFunc,
	old []view.Handle,
	merged []Range,
) ([]view.Handle, error) {
	add := make([]view.Decoration, len(merged))
	for i, r := range merged {
		var style view.Style
		if len(r.Scopes) > 0 {
			style = resolve(r.Scopes[0])
		}
		add[i] = view.Decoration{
			Range: view.Range{Start: r.Start, End: r.End},
			Style: style,
		}
	}
	return v.DeltaDecorations(add, old)
}
