package render

import (
	"strings"
	"time"

	"github.com/kirillkom/confract/internal/core/domain"
)

const (
	generatedPrefix = "*Generated by Confract · "
	noteSeparator   = " — *"
)

// Markdown serializes a document body. Output is deterministic apart from the
// generation date taken from now.
func Markdown(title string, sections []domain.Section, now time.Time) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	b.WriteString(generatedPrefix + now.Format("2006-01-02") + "*\n\n")
	for _, sec := range sections {
		b.WriteString("## " + sec.Emoji + " " + sec.Title + "\n")
		for _, it := range sec.Items {
			b.WriteString("- " + escapeInline(it.Name))
			if it.Note != "" {
				b.WriteString(noteSeparator + escapeInline(it.Note) + "*")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Names and notes are escaped so a literal "*" can never close or open a note.
var inlineEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

func unescapeInline(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
