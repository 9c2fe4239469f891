// Package textutil holds the lexical helpers shared by classification, deduplication
// and rendering: normalization, title casing and word truncation.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minorWords stay lowercase in titles unless they lead.
var minorWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "but": {}, "or": {}, "for": {}, "nor": {},
	"on": {}, "at": {}, "to": {}, "by": {}, "in": {}, "of": {}, "up": {}, "vs": {},
}

// Normalize lowercases s and drops everything except ASCII letters, digits and whitespace.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// TitleCase capitalizes every space-separated word except minor words after the first.
// Only the start of a word is capitalized: "wall-e" becomes "Wall-e".
func TitleCase(s string) string {
	// cases.Caser is stateful; one per call.
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)

	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		if _, minor := minorWords[strings.ToLower(w)]; i > 0 && minor {
			words[i] = lower.String(w)
			continue
		}
		head, tail, hyphenated := strings.Cut(w, "-")
		if !hyphenated {
			words[i] = title.String(w)
			continue
		}
		words[i] = title.String(head) + "-" + lower.String(tail)
	}
	return strings.Join(words, " ")
}

// TruncateWords keeps the first n words of line followed by an ellipsis. Lines that
// already fit are title cased instead.
func TruncateWords(line string, n int) string {
	words := strings.Split(line, " ")
	if len(words) > n {
		return strings.Join(words[:n], " ") + "…"
	}
	return TitleCase(line)
}

func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
