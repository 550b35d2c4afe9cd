package history_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/devcomb/theia/internal/history"
)

func setupStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordOpenAndGet(t *testing.T) {
	store := setupStore(t)
	uri := "https://example.com/snippet.ts"
	openedAt := time.Unix(1700000000, 0)

	if err := store.RecordOpen(uri, openedAt); err != nil {
		t.Fatalf("RecordOpen failed: %v", err)
	}

	entry, err := store.Get(uri)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.URI != uri {
		t.Errorf("URI = %q, want %q", entry.URI, uri)
	}
	if entry.OpenCount != 1 {
		t.Errorf("OpenCount = %d, want 1", entry.OpenCount)
	}
	if entry.LastOpened != openedAt.Unix() {
		t.Errorf("LastOpened = %d, want %d", entry.LastOpened, openedAt.Unix())
	}
}

func TestRecordOpenIncrements(t *testing.T) {
	store := setupStore(t)
	uri := "https://example.com/snippet.ts"

	for i := 0; i < 3; i++ {
		if err := store.RecordOpen(uri, time.Unix(int64(1700000000+i), 0)); err != nil {
			t.Fatalf("RecordOpen %d failed: %v", i, err)
		}
	}

	entry, err := store.Get(uri)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.OpenCount != 3 {
		t.Errorf("OpenCount = %d, want 3", entry.OpenCount)
	}
	if entry.LastOpened != 1700000002 {
		t.Errorf("LastOpened = %d, want 1700000002", entry.LastOpened)
	}
}

func TestGetUnknown(t *testing.T) {
	store := setupStore(t)
	if _, err := store.Get("https://example.com/missing.ts"); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Get of unknown uri returned %v, want ErrNotFound", err)
	}
}

func TestRecentOrdering(t *testing.T) {
	store := setupStore(t)
	uris := []string{
		"https://example.com/a.ts",
		"https://example.com/b.ts",
		"https://example.com/c.ts",
	}
	for i, uri := range uris {
		if err := store.RecordOpen(uri, time.Unix(int64(1700000000+i), 0)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("%d entries, want 2", len(entries))
	}
	if entries[0].URI != uris[2] || entries[1].URI != uris[1] {
		t.Errorf("unexpected order: %q, %q", entries[0].URI, entries[1].URI)
	}
}

func TestForget(t *testing.T) {
	store := setupStore(t)
	uri := "https://example.com/a.ts"

	if err := store.RecordOpen(uri, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := store.Forget(uri); err != nil {
		t.Fatalf("Forget failed: %v", err)
	}
	if _, err := store.Get(uri); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("entry still present after Forget: %v", err)
	}
}
