// Package render turns classified items into ordered sections, derives a document
// title and serializes the result as markdown.
package render

import (
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const (
	otherSection    = "other"
	undeclaredEmoji = "◈"
)

// BuildSections groups items by section key. Declared sections come first in
// declaration order, followed by undeclared keys in first-seen order. Empty groups are
// not emitted.
func BuildSections(items []domain.ClassifiedItem, ct domain.ContentType) []domain.Section {
	groups := make(map[string][]domain.Item)
	seen := make([]string, 0)
	for _, it := range items {
		key := groupKey(it)
		if _, ok := groups[key]; !ok {
			seen = append(seen, key)
		}
		groups[key] = append(groups[key], domain.Item{Name: it.Name, Note: it.Note, IsNew: it.IsNew})
	}

	order := make([]string, 0, len(ct.Sections)+len(seen))
	declared := make(map[string]struct{}, len(ct.Sections))
	for _, sec := range ct.Sections {
		if _, dup := declared[sec.Key]; dup {
			continue
		}
		declared[sec.Key] = struct{}{}
		order = append(order, sec.Key)
	}
	for _, key := range seen {
		if _, ok := declared[key]; !ok {
			order = append(order, key)
		}
	}

	sections := make([]domain.Section, 0, len(groups))
	for _, key := range order {
		items := groups[key]
		if len(items) == 0 {
			continue
		}
		section := domain.Section{
			Title:    SectionTitle(ct, key),
			Emoji:    undeclaredEmoji,
			Category: key,
			Items:    items,
		}
		if def, ok := ct.Section(key); ok {
			if def.Emoji != "" {
				section.Emoji = def.Emoji
			}
			if def.Category != "" {
				section.Category = def.Category
			}
		}
		sections = append(sections, section)
	}
	return sections
}

// SectionTitle resolves the display title of a section key under ct.
func SectionTitle(ct domain.ContentType, key string) string {
	if name, ok := ct.SectionNames[key]; ok && name != "" {
		return name
	}
	return textutil.TitleCase(strings.ReplaceAll(key, "_", " "))
}

func groupKey(it domain.ClassifiedItem) string {
	switch {
	case it.SectionKey != "":
		return it.SectionKey
	case it.Category != "":
		return it.Category
	default:
		return otherSection
	}
}
