package view

import "context"

// Position is a zero-based line/character position in a document.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

// Style is a resolved style-class identifier. The empty string means the
// decoration renders with no special style.
type Style string

// Handle is an opaque identifier for one applied decoration. Holders use it
// only to request removal of the decoration it was issued for.
type Handle uint64

// Decoration is one visual overlay to be added to a view.
type Decoration struct {
	Range Range
	Style Style
}

// Subscription is a cancellable registration on a view event channel.
type Subscription interface {
	Cancel()
}

// View is an open view on a document.
type View interface {
	URI() string
	LineCount() uint32

	// OnClosed registers fn to run when the view closes. The notification
	// fires exactly once per view lifetime; registering on an already
	// closed view invokes fn immediately.
	OnClosed(fn func()) Subscription
}

// DecorationView is implemented by views that can render decorations.
// Views of other kinds (previews, binary viewers) only satisfy View.
type DecorationView interface {
	View

	// DeltaDecorations atomically removes the decorations identified by
	// remove and adds one decoration per entry of add, returning freshly
	// issued handles matching add positionally. On a closed view the call
	// is a no-op returning no handles.
	DeltaDecorations(add []Decoration, remove []Handle) ([]Handle, error)
}

// Surface looks up the active view for a document.
type Surface interface {
	ViewFor(ctx context.Context, uri string) (View, bool)
}
