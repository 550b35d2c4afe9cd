package highlight

import "github.com/devcomb/theia/internal/view"

// Range is one semantically classified span of a document.
//
// Scopes is ordered from narrowest to broadest classification. The producer
// guarantees this ordering; only the first entry is consulted for styling
// and the order is never re-checked here.
type Range struct {
	Start  view.Position
	End    view.Position
	Scopes []string
}

// Merge combines previously cached ranges with a newly arrived batch.
//
// Invalidation granularity is the start line: every old range starting on a
// line that any incoming range also starts on is discarded, so new data
// fully supersedes old data per affected line. Old ranges starting at or
// beyond lineCount are dropped as well, which garbage-collects entries left
// behind after edits shrank the document. The result keeps the retained old
// ranges first, then the incoming batch; callers must not rely on that
// order beyond test determinism.
//
// Merge is pure: it mutates neither input.
func Merge(old, incoming []Range, lineCount uint32) []Range {
	if lineCount == 0 {
		return nil
	}

	affected := make(map[uint32]struct{}, len(incoming))
	for _, r := range incoming {
		affected[r.Start.Line] = struct{}{}
	}

	merged := make([]Range, 0, len(old)+len(incoming))
	for _, r := range old {
		if _, hit := affected[r.Start.Line]; hit {
			continue
		}
		if r.Start.Line >= lineCount {
			continue
		}
		merged = append(merged, r)
	}
	return append(merged, incoming...)
}
