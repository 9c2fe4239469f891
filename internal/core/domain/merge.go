package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultVersionLimit = 20

// NewDocument builds a document from a pipeline result.
func NewDocument(id string, result ProcessResult, now time.Time) Document {
	title := result.Title
	if title == "" {
		title = "Untitled"
	}
	emoji := result.Emoji
	if emoji == "" {
		emoji = "📄"
	}
	return Document{
		ID:               id,
		Title:            title,
		Emoji:            emoji,
		DetectedType:     result.DetectedType,
		Sections:         cloneSections(result.Sections),
		ConsolidationLog: cloneLog(result.ConsolidationLog),
		Markdown:         result.Markdown,
		Versions:         []Version{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Merge applies a pipeline result to a copy of doc. doc itself is left untouched,
// so previews are plain calls whose result is discarded.
func Merge(doc Document, result ProcessResult, now time.Time) Document {
	out := doc.Clone()

	for _, incoming := range result.Sections {
		idx := findSection(out.Sections, incoming.Title)
		if idx < 0 {
			sec := cloneSection(incoming)
			for i := range sec.Items {
				sec.Items[i].IsNew = true
			}
			out.Sections = append(out.Sections, sec)
			continue
		}

		existing := &out.Sections[idx]
		for _, item := range incoming.Items {
			if hasItem(existing.Items, item.Name) {
				continue
			}
			item.IsNew = true
			existing.Items = append(existing.Items, item)
		}
	}

	out.ConsolidationLog = append(out.ConsolidationLog, cloneLog(result.ConsolidationLog)...)
	out.UpdatedAt = now
	if result.Markdown != "" {
		out.Markdown = result.Markdown
	}
	return out
}

// PushVersion returns a copy of doc with its current content snapshotted at the head
// of the version history, trimmed to limit entries.
func PushVersion(doc Document, label string, now time.Time, limit int) Document {
	if limit <= 0 {
		limit = DefaultVersionLimit
	}
	out := doc.Clone()
	snapshot := Version{
		Label:            label,
		CreatedAt:        now,
		Sections:         cloneSections(doc.Sections),
		ConsolidationLog: cloneLog(doc.ConsolidationLog),
	}
	out.Versions = append([]Version{snapshot}, out.Versions...)
	if len(out.Versions) > limit {
		out.Versions = out.Versions[:limit]
	}
	return out
}

// Revert restores the snapshot at index, recording the pre-revert state as a new version.
func Revert(doc Document, index int, now time.Time, limit int) (Document, error) {
	if index < 0 || index >= len(doc.Versions) {
		return Document{}, WrapError(ErrInvalidInput, "revert document", fmt.Errorf("version index %d out of range", index))
	}
	target := doc.Versions[index]

	out := PushVersion(doc, "Before revert to: "+target.Label, now, limit)
	out.Sections = cloneSections(target.Sections)
	out.ConsolidationLog = cloneLog(target.ConsolidationLog)
	out.UpdatedAt = now
	return out, nil
}

const (
	RestoredSectionTitle = "Restored"
	restoredEmoji        = "↩️"
	restoredCategory     = "other"
	restoredNote         = "manually restored"
)

// RestoreItem brings an item dropped as a duplicate back into the Restored section.
// name must match the removed side of a consolidation log entry, ignoring case. The
// log itself is kept.
func RestoreItem(doc Document, name string, now time.Time) (Document, error) {
	removed, ok := findRemoved(doc.ConsolidationLog, name)
	if !ok {
		return Document{}, WrapError(ErrInvalidInput, "restore item", fmt.Errorf("%q is not in the consolidation log", name))
	}
	name = removed

	out := doc.Clone()
	idx := findSection(out.Sections, RestoredSectionTitle)
	if idx < 0 {
		out.Sections = append(out.Sections, Section{
			Title:    RestoredSectionTitle,
			Emoji:    restoredEmoji,
			Category: restoredCategory,
			Items:    []Item{},
		})
		idx = len(out.Sections) - 1
	}
	if hasItem(out.Sections[idx].Items, name) {
		return Document{}, WrapError(ErrInvalidInput, "restore item", fmt.Errorf("%q was already restored", name))
	}
	out.Sections[idx].Items = append(out.Sections[idx].Items, Item{Name: name, Note: restoredNote, IsNew: true})
	out.UpdatedAt = now
	return out, nil
}

func findRemoved(log []ConsolidationLogEntry, name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	for _, entry := range log {
		if strings.ToLower(strings.TrimSpace(entry.Removed)) == key {
			return entry.Removed, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Sections = cloneSections(d.Sections)
	out.ConsolidationLog = cloneLog(d.ConsolidationLog)
	if d.Versions != nil {
		out.Versions = make([]Version, len(d.Versions))
		for i, v := range d.Versions {
			v.Sections = cloneSections(v.Sections)
			v.ConsolidationLog = cloneLog(v.ConsolidationLog)
			out.Versions[i] = v
		}
	}
	return out
}

func findSection(sections []Section, title string) int {
	for i, sec := range sections {
		if strings.EqualFold(sec.Title, title) {
			return i
		}
	}
	return -1
}

func hasItem(items []Item, name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, it := range items {
		if strings.ToLower(strings.TrimSpace(it.Name)) == key {
			return true
		}
	}
	return false
}

func cloneSections(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i, sec := range in {
		out[i] = cloneSection(sec)
	}
	return out
}

func cloneSection(sec Section) Section {
	if sec.Items != nil {
		items := make([]Item, len(sec.Items))
		copy(items, sec.Items)
		sec.Items = items
	}
	return sec
}

func cloneLog(in []ConsolidationLogEntry) []ConsolidationLogEntry {
	if in == nil {
		return nil
	}
	out := make([]ConsolidationLogEntry, len(in))
	copy(out, in)
	return out
}
