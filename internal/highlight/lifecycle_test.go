package highlight_test

import (
	"context"
	"testing"

	"github.com/devcomb/theia/internal/highlight"
	"github.com/devcomb/theia/internal/theme"
	"github.com/devcomb/theia/internal/view"
)

// scriptedView is a minimal decoration-capable view whose close event is
// fired by the test, so the exact sequence of surface calls is observable.
type scriptedView struct {
	uri       string
	lineCount uint32

	deltaCalls    []deltaCall
	closeFns      []func()
	cancelled     int
	nextHandle    view.Handle
	activeHandles map[view.Handle]bool
}

type deltaCall struct {
	added   int
	removed []view.Handle
}

func newScriptedView(uri string, lineCount uint32) *scriptedView {
	return &scriptedView{
		uri:           uri,
		lineCount:     lineCount,
		activeHandles: make(map[view.Handle]bool),
	}
}

func (v *scriptedView) URI() string       { return v.uri }
func (v *scriptedView) LineCount() uint32 { return v.lineCount }

func (v *scriptedView) OnClosed(fn func()) view.Subscription {
	v.closeFns = append(v.closeFns, fn)
	return scriptedSubscription{view: v}
}

func (v *scriptedView) DeltaDecorations(add []view.Decoration, remove []view.Handle) ([]view.Handle, error) {
	for _, h := range remove {
		if !v.activeHandles[h] {
			panic("removal of a handle that was never issued or already removed")
		}
		delete(v.activeHandles, h)
	}
	handles := make([]view.Handle, len(add))
	for i := range add {
		v.nextHandle++
		handles[i] = v.nextHandle
		v.activeHandles[v.nextHandle] = true
	}
	v.deltaCalls = append(v.deltaCalls, deltaCall{added: len(add), removed: remove})
	return handles, nil
}

func (v *scriptedView) fireClose() {
	fns := v.closeFns
	v.closeFns = nil
	for _, fn := range fns {
		fn()
	}
}

type scriptedSubscription struct {
	view *scriptedView
}

func (s scriptedSubscription) Cancel() { s.view.cancelled++ }

type scriptedSurface struct {
	views map[string]*scriptedView
}

func (s scriptedSurface) ViewFor(ctx context.Context, uri string) (view.View, bool) {
	v, ok := s.views[uri]
	if !ok {
		return nil, false
	}
	return v, true
}

func TestLifecycleSequence(t *testing.T) {
	v := newScriptedView(docURI, 100)
	surface := scriptedSurface{views: map[string]*scriptedView{docURI: v}}
	cache := highlight.NewCache(surface, theme.Default().Resolve)
	ctx := context.Background()

	// open → update → update
	err := cache.ApplyUpdate(ctx, docURI, []highlight.Range{mkRange(2, 0, 2, 5, "keyword")})
	if err != nil {
		t.Fatalf("update 1 failed: %v", err)
	}
	err = cache.ApplyUpdate(ctx, docURI, []highlight.Range{mkRange(2, 0, 2, 3, "string")})
	if err != nil {
		t.Fatalf("update 2 failed: %v", err)
	}

	if len(v.deltaCalls) != 2 {
		t.Fatalf("%d delta calls after two updates, want 2", len(v.deltaCalls))
	}
	if len(v.deltaCalls[0].removed) != 0 {
		t.Errorf("first apply removed %d handles, want 0", len(v.deltaCalls[0].removed))
	}
	// The second apply must exchange exactly the one prior handle.
	if len(v.deltaCalls[1].removed) != 1 {
		t.Errorf("second apply removed %d handles, want 1", len(v.deltaCalls[1].removed))
	}
	if len(v.activeHandles) != 1 {
		t.Errorf("%d live handles, want 1", len(v.activeHandles))
	}

	// close → close (duplicate)
	v.fireClose()
	if cache.Tracked(docURI) {
		t.Fatal("cache entry survived close notification")
	}
	clears := len(v.deltaCalls) - 2
	if clears != 1 {
		t.Fatalf("%d clear calls after close, want exactly 1", clears)
	}
	if v.deltaCalls[2].added != 0 || len(v.deltaCalls[2].removed) != 1 {
		t.Errorf("clear call added %d / removed %d, want 0 / 1",
			v.deltaCalls[2].added, len(v.deltaCalls[2].removed))
	}
	if len(v.activeHandles) != 0 {
		t.Errorf("%d live handles after close, want 0", len(v.activeHandles))
	}
	if v.cancelled != 1 {
		t.Errorf("close subscription cancelled %d times, want 1", v.cancelled)
	}

	v.fireClose()
	if got := len(v.deltaCalls); got != 3 {
		t.Errorf("duplicate close triggered extra surface calls: %d total, want 3", got)
	}
}
