package domain

import (
	"errors"
	"testing"
	"time"
)

func sampleDocument() Document {
	return Document{
		ID:    "doc-1",
		Title: "Watchlist",
		Emoji: "🎬",
		Sections: []Section{
			{Title: "TV Shows", Emoji: "📺", Category: "tv", Items: []Item{{Name: "Breaking Bad"}}},
		},
		ConsolidationLog: []ConsolidationLogEntry{},
	}
}

func TestMergeAppendsNewItemsWithoutTouchingOriginal(t *testing.T) {
	doc := sampleDocument()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	merged := Merge(doc, ProcessResult{
		Sections: []Section{
			{Title: "tv shows", Items: []Item{{Name: " breaking bad "}, {Name: "The Wire"}}},
			{Title: "Movies", Emoji: "🎬", Items: []Item{{Name: "Inception"}}},
		},
		ConsolidationLog: []ConsolidationLogEntry{{Removed: "x", KeptAs: "y", Reason: "exact duplicate"}},
		Markdown:         "# Watchlist",
	}, now)

	if len(doc.Sections) != 1 || len(doc.Sections[0].Items) != 1 {
		t.Fatalf("original document mutated: %+v", doc.Sections)
	}
	if len(doc.ConsolidationLog) != 0 {
		t.Fatalf("original log mutated: %+v", doc.ConsolidationLog)
	}
	if len(merged.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(merged.Sections))
	}
	tv := merged.Sections[0]
	if len(tv.Items) != 2 || tv.Items[1].Name != "The Wire" || !tv.Items[1].IsNew {
		t.Fatalf("unexpected tv items: %+v", tv.Items)
	}
	if tv.Items[0].IsNew {
		t.Fatalf("existing item must keep its flag")
	}
	if !merged.Sections[1].Items[0].IsNew {
		t.Fatalf("items of a new section must be flagged new")
	}
	if len(merged.ConsolidationLog) != 1 {
		t.Fatalf("expected log to be appended, got %+v", merged.ConsolidationLog)
	}
	if merged.Markdown != "# Watchlist" || !merged.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected markdown/updated: %q %v", merged.Markdown, merged.UpdatedAt)
	}
}

func TestMergeKeepsMarkdownWhenResultHasNone(t *testing.T) {
	doc := sampleDocument()
	doc.Markdown = "old"
	merged := Merge(doc, ProcessResult{}, time.Now())
	if merged.Markdown != "old" {
		t.Fatalf("expected markdown to be kept, got %q", merged.Markdown)
	}
}

func TestPushVersionCapsHistory(t *testing.T) {
	doc := sampleDocument()
	now := time.Now()
	for i := 0; i < 25; i++ {
		doc = PushVersion(doc, "v", now, DefaultVersionLimit)
	}
	if len(doc.Versions) != DefaultVersionLimit {
		t.Fatalf("expected %d versions, got %d", DefaultVersionLimit, len(doc.Versions))
	}
}

func TestPushVersionSnapshotIsIndependent(t *testing.T) {
	doc := PushVersion(sampleDocument(), "Before merge", time.Now(), 0)
	doc.Sections[0].Items[0].Name = "changed"
	if doc.Versions[0].Sections[0].Items[0].Name != "Breaking Bad" {
		t.Fatalf("snapshot shares memory with live sections")
	}
}

func TestRevertRestoresSnapshot(t *testing.T) {
	now := time.Now()
	doc := PushVersion(sampleDocument(), "Before merge", now, 0)
	doc = Merge(doc, ProcessResult{Sections: []Section{{Title: "Movies", Items: []Item{{Name: "Up"}}}}}, now)

	reverted, err := Revert(doc, 0, now, 0)
	if err != nil {
		t.Fatalf("Revert() error = %v", err)
	}
	if len(reverted.Sections) != 1 || reverted.Sections[0].Title != "TV Shows" {
		t.Fatalf("unexpected sections after revert: %+v", reverted.Sections)
	}
	if reverted.Versions[0].Label != "Before revert to: Before merge" {
		t.Fatalf("unexpected head version label %q", reverted.Versions[0].Label)
	}
	if len(reverted.Versions[0].Sections) != 2 {
		t.Fatalf("pre-revert state should be snapshotted")
	}
}

func TestRevertRejectsBadIndex(t *testing.T) {
	_, err := Revert(sampleDocument(), 3, time.Now(), 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestErrEmptyInputIsInvalidInput(t *testing.T) {
	err := WrapError(ErrEmptyInput, "process", errors.New("blank"))
	if !IsKind(err, ErrInvalidInput) || !IsKind(err, ErrEmptyInput) {
		t.Fatalf("expected both kinds, got %v", err)
	}
}

func TestRestoreItemAddsRestoredSection(t *testing.T) {
	doc := sampleDocument()
	doc.ConsolidationLog = []ConsolidationLogEntry{{Removed: "Breaking Bad!", KeptAs: "Breaking Bad", Reason: "semantic match (95% similar)", Section: "TV Shows"}}
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	restored, err := RestoreItem(doc, "breaking bad!", now)
	if err != nil {
		t.Fatalf("RestoreItem() error = %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("original document mutated: %+v", doc.Sections)
	}
	if len(restored.Sections) != 2 {
		t.Fatalf("expected a Restored section, got %+v", restored.Sections)
	}
	sec := restored.Sections[1]
	if sec.Title != "Restored" || sec.Emoji != "↩️" || sec.Category != "other" {
		t.Fatalf("unexpected restored section %+v", sec)
	}
	want := Item{Name: "Breaking Bad!", Note: "manually restored", IsNew: true}
	if len(sec.Items) != 1 || sec.Items[0] != want {
		t.Fatalf("unexpected restored items %+v", sec.Items)
	}
	if !restored.UpdatedAt.Equal(now) {
		t.Fatalf("updated not bumped: %v", restored.UpdatedAt)
	}
	if len(restored.ConsolidationLog) != 1 {
		t.Fatalf("consolidation log must be kept, got %+v", restored.ConsolidationLog)
	}

	if _, err := RestoreItem(restored, "Breaking Bad!", now); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second restore should be rejected, got %v", err)
	}
}

func TestRestoreItemRequiresLogEntry(t *testing.T) {
	if _, err := RestoreItem(sampleDocument(), "The Wire", time.Now()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
