package render

import (
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const (
	minTitleRunes = 4
	maxTitleRunes = 59
)

// GenerateTitle keeps the title and emoji of an existing document. New documents are
// titled from the first input line when it has a reasonable length, otherwise from
// the content type default.
func GenerateTitle(input string, ct domain.ContentType, existing *domain.Document) (title, emoji string) {
	if existing != nil {
		emoji = existing.Emoji
		if emoji == "" {
			emoji = ct.Emoji
		}
		return existing.Title, emoji
	}

	first, _, _ := strings.Cut(input, "\n")
	first = strings.TrimSpace(strings.TrimLeft(first, "#*- \t\r\f\v"))
	if n := utf8.RuneCountInString(first); n >= minTitleRunes && n <= maxTitleRunes {
		return textutil.TitleCase(first), ct.Emoji
	}

	title = ct.DefaultTitle
	if title == "" {
		title = "Untitled"
	}
	return title, ct.Emoji
}
