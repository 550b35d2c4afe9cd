package view

import (
	"context"
	"sync"
)

// Registry tracks the open views of the editor area, keyed by canonical
// document URI. It is the in-process implementation of Surface.
type Registry struct {
	mu    sync.Mutex
	views map[string]*EditorView
	next  Handle
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string]*EditorView),
	}
}

// Open creates a decoration-capable view for uri, or returns the existing
// one if the document is already open.
func (r *Registry) Open(uri string, lineCount uint32) *EditorView {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views[uri]; ok {
		return v
	}
	v := newEditorView(r, uri, lineCount, true)
	r.views[uri] = v
	return v
}

// OpenPreview creates a view that cannot render decorations, e.g. for
// binary or image documents.
func (r *Registry) OpenPreview(uri string, lineCount uint32) View {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views[uri]; ok {
		return v
	}
	v := newEditorView(r, uri, lineCount, false)
	r.views[uri] = v
	return v
}

// ViewFor implements Surface.
func (r *Registry) ViewFor(ctx context.Context, uri string) (View, bool) {
	if err := ctx.Err(); err != nil {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.views[uri]
	if !ok {
		return nil, false
	}
	if !v.decorable {
		return previewView{v}, true
	}
	return v, true
}

// SetLineCount updates the line count of an open view. Unknown URIs are
// ignored.
func (r *Registry) SetLineCount(uri string, lineCount uint32) {
	r.mu.Lock()
	v, ok := r.views[uri]
	r.mu.Unlock()
	if ok {
		v.setLineCount(lineCount)
	}
}

// Close closes the view for uri and fires its close subscriptions. Closing
// an unknown or already closed URI is a no-op.
func (r *Registry) Close(uri string) {
	r.mu.Lock()
	v, ok := r.views[uri]
	if ok {
		delete(r.views, uri)
	}
	r.mu.Unlock()

	if ok {
		v.close()
	}
}

// CloseAll closes every open view, in arbitrary order.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := make([]*EditorView, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.views = make(map[string]*EditorView)
	r.mu.Unlock()

	for _, v := range views {
		v.close()
	}
}

func (r *Registry) allocHandle() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	return r.next
}

// EditorView is one open view. It records the decorations currently applied
// to it and notifies subscribers when it closes.
type EditorView struct {
	registry  *Registry
	uri       string
	decorable bool

	mu          sync.Mutex
	lineCount   uint32
	decorations map[Handle]Decoration
	subs        map[int]func()
	nextSub     int
	closed      bool
}

func newEditorView(r *Registry, uri string, lineCount uint32, decorable bool) *EditorView {
	return &EditorView{
		registry:    r,
		uri:         uri,
		decorable:   decorable,
		lineCount:   lineCount,
		decorations: make(map[Handle]Decoration),
		subs:        make(map[int]func()),
	}
}

func (v *EditorView) URI() string { return v.uri }

func (v *EditorView) LineCount() uint32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lineCount
}

func (v *EditorView) setLineCount(n uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = n
}

func (v *EditorView) DeltaDecorations(add []Decoration, remove []Handle) ([]Handle, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, nil
	}
	for _, h := range remove {
		delete(v.decorations, h)
	}
	v.mu.Unlock()

	// Handle allocation takes the registry lock, so it happens outside the
	// view lock.
	handles := make([]Handle, len(add))
	for i := range add {
		handles[i] = v.registry.allocHandle()
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, nil
	}
	for i, d := range add {
		v.decorations[handles[i]] = d
	}
	return handles, nil
}

// Decorations returns a snapshot of the currently applied decorations.
func (v *EditorView) Decorations() []Decoration {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Decoration, 0, len(v.decorations))
	for _, d := range v.decorations {
		out = append(out, d)
	}
	return out
}

func (v *EditorView) OnClosed(fn func()) Subscription {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		fn()
		return nopSubscription{}
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	v.mu.Unlock()

	return &closeSubscription{view: v, id: id}
}

func (v *EditorView) close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	subs := make([]func(), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.subs = nil
	v.decorations = make(map[Handle]Decoration)
	v.mu.Unlock()

	// Callbacks run outside the view lock so they may call back into the
	// registry or the view.
	for _, fn := range subs {
		fn()
	}
}

type closeSubscription struct {
	view *EditorView
	id   int
}

func (s *closeSubscription) Cancel() {
	s.view.mu.Lock()
	defer s.view.mu.Unlock()
	if s.view.subs != nil {
		delete(s.view.subs, s.id)
	}
}

type nopSubscription struct{}

func (nopSubscription) Cancel() {}

// previewView hides the DecorationView methods of an EditorView opened as a
// preview, so type assertions against DecorationView fail for it.
type previewView struct {
	v *EditorView
}

func (p previewView) URI() string                     { return p.v.URI() }
func (p previewView) LineCount() uint32               { return p.v.LineCount() }
func (p previewView) OnClosed(fn func()) Subscription { return p.v.OnClosed(fn) }
