package highlight

import (
	"context"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/devcomb/theia/internal/view"
)

// Cache is the semantic-highlighting overlay cache. It merges partial token
// updates into a consistent per-document range set, keeps the rendered
// decorations of each open document in sync with that set, and purges all
// per-document state exactly once when the document's view closes.
//
// The cache exclusively owns its entries; the view surface owns the meaning
// of decoration handles, which are held here only as opaque tokens to pass
// back for removal.
type Cache struct {
	surface view.Surface
	resolve ResolveFunc
	log     commonlog.Logger

	mu       sync.Mutex
	entries  map[string]*entry
	disposed bool
}

// entry is the cached state of one tracked document. Its mutex serializes
// the merge+apply sequence per document, so overlapping updates for one
// document never read-modify-write ranges/handles concurrently and a close
// arriving mid-update waits for the update to finish.
type entry struct {
	mu      sync.Mutex
	view    view.DecorationView
	ranges  []Range
	handles []view.Handle
	sub     view.Subscription
	closed  bool
}

// NewCache creates a Cache over the given view surface and theme resolver.
func NewCache(surface view.Surface, resolve ResolveFunc) *Cache {
	return &Cache{
		surface: surface,
		resolve: resolve,
		log:     commonlog.GetLogger("theia.highlight"),
		entries: make(map[string]*entry),
	}
}

// ApplyUpdate merges a batch of ranges into the cached state for uri and
// applies the resulting decoration diff to the document's view. Documents
// without an active view, or whose view cannot render decorations, are
// skipped silently. The first update for a document starts tracking it
// until its view closes.
func (c *Cache) ApplyUpdate(ctx context.Context, uri string, incoming []Range) error {
	v, ok := c.surface.ViewFor(ctx, uri)
	if !ok {
		c.log.Debugf("no active view for %s, dropping highlight update", uri)
		return nil
	}
	dv, ok := v.(view.DecorationView)
	if !ok {
		c.log.Debugf("view for %s cannot render decorations, dropping highlight update", uri)
		return nil
	}

	e := c.ensure(uri, dv)
	if e == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}

	merged := Merge(e.ranges, incoming, dv.LineCount())
	handles, err := ApplyDecorations(dv, c.resolve, e.handles, merged)
	if err != nil {
		// Keep the previous handles: stale decorations are recoverable on
		// the next update, lost handles would leak decorations for good.
		c.log.Errorf("failed to apply decorations for %s: %s", uri, err.Error())
		return nil
	}
	e.ranges = merged
	e.handles = handles
	return nil
}

// Tracked reports whether uri currently has a cache entry.
func (c *Cache) Tracked(uri string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[uri]
	return ok
}

// Ranges returns a copy of the cached ranges for uri.
func (c *Cache) Ranges(uri string) []Range {
	c.mu.Lock()
	e, ok := c.entries[uri]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Range, len(e.ranges))
	copy(out, e.ranges)
	return out
}

// Dispose evicts every tracked document, clearing its decorations, in
// arbitrary order. Further updates are ignored.
func (c *Cache) Dispose() {
	c.mu.Lock()
	c.disposed = true
	uris := make([]string, 0, len(c.entries))
	for uri := range c.entries {
		uris = append(uris, uri)
	}
	c.mu.Unlock()

	for _, uri := range uris {
		c.evict(uri)
	}
}

// ensure returns the entry for uri, creating it and subscribing to the
// view's close notification on first use. Returns nil after Dispose.
func (c *Cache) ensure(uri string, dv view.DecorationView) *entry {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil
	}
	if e, ok := c.entries[uri]; ok {
		c.mu.Unlock()
		return e
	}
	e := &entry{view: dv}
	c.entries[uri] = e
	c.mu.Unlock()

	// Subscribing outside the cache lock: a view that already closed fires
	// the callback synchronously, and the callback takes the cache lock.
	sub := dv.OnClosed(func() { c.evict(uri) })

	e.mu.Lock()
	if e.closed {
		// The view closed while we were subscribing and eviction already
		// ran; the late subscription must not outlive the entry.
		sub.Cancel()
	} else {
		e.sub = sub
	}
	e.mu.Unlock()
	return e
}

// evict performs the close transition for uri: clear all decorations,
// cancel the close subscription, and drop the entry. Safe to call more
// than once; only the first call does work.
func (c *Cache) evict(uri string) {
	c.mu.Lock()
	e, ok := c.entries[uri]
	if ok {
		delete(c.entries, uri)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	// Taking the entry lock defers the cleanup behind any in-flight update
	// for the same document.
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true

	if _, err := ApplyDecorations(e.view, c.resolve, e.handles, nil); err != nil {
		c.log.Errorf("failed to clear decorations for %s: %s", uri, err.Error())
	}
	if e.sub != nil {
		e.sub.Cancel()
	}
	e.ranges = nil
	e.handles = nil
}
