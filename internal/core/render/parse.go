package render

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
)

// ParseMarkdown recovers a document from a Markdown export. Section keys and
// categories are not part of the format and come back empty.
func ParseMarkdown(text string) (domain.Document, error) {
	doc := domain.Document{Markdown: text}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var current *domain.Section
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "## "):
			emoji, title, _ := strings.Cut(strings.TrimPrefix(line, "## "), " ")
			doc.Sections = append(doc.Sections, domain.Section{Title: title, Emoji: emoji, Items: []domain.Item{}})
			current = &doc.Sections[len(doc.Sections)-1]
		case strings.HasPrefix(line, "# ") && doc.Title == "":
			doc.Title = strings.TrimPrefix(line, "# ")
		case strings.HasPrefix(line, "- "):
			if current == nil {
				return domain.Document{}, domain.WrapError(domain.ErrMalformedDocument, "parse markdown", fmt.Errorf("item %q outside of a section", line))
			}
			current.Items = append(current.Items, parseItem(strings.TrimPrefix(line, "- ")))
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Document{}, fmt.Errorf("scan markdown: %w", err)
	}
	if doc.Title == "" {
		return domain.Document{}, domain.WrapError(domain.ErrMalformedDocument, "parse markdown", fmt.Errorf("missing title heading"))
	}
	return doc, nil
}

// parseItem splits a bullet into name and note. Escaped names never contain the bare
// separator, so the first occurrence is the real one.
func parseItem(line string) domain.Item {
	name, note, found := strings.Cut(line, noteSeparator)
	if found && closesNote(note) {
		return domain.Item{Name: unescapeInline(name), Note: unescapeInline(strings.TrimSuffix(note, "*"))}
	}
	return domain.Item{Name: unescapeInline(line)}
}

// closesNote reports whether note ends with an unescaped "*".
func closesNote(note string) bool {
	if !strings.HasSuffix(note, "*") {
		return false
	}
	backslashes := 0
	for i := len(note) - 2; i >= 0 && note[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}
