package chunking

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const (
	minSegmentRunes = 2
	maxSegmentRunes = 400
)

var (
	leadingMarkers = regexp.MustCompile(`^(?:[\s\-•*▪·◦▸►#>]+|\d+[.)\]]+)+`)
	bareURL        = regexp.MustCompile(`^https?://`)
)

// Segmenter splits pasted text into lines: one per input line, per semicolon clause and
// per comma-separated capitalized entry ("Dune, Arrival, Up").
type Segmenter struct{}

func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

func (s *Segmenter) Segment(input string) []domain.Line {
	parts := splitCandidates(input)
	out := make([]domain.Line, 0, len(parts))
	for _, part := range parts {
		text := strings.TrimSpace(leadingMarkers.ReplaceAllString(part, ""))
		n := utf8.RuneCountInString(text)
		if n < minSegmentRunes || n >= maxSegmentRunes {
			continue
		}
		if bareURL.MatchString(text) {
			continue
		}
		out = append(out, domain.Line{
			Text:       text,
			Normalized: textutil.Normalize(text),
			WordCount:  textutil.WordCount(text),
		})
	}
	return out
}

// splitCandidates cuts on newlines, semicolons and on a comma that follows a word
// character and precedes (after optional whitespace) an uppercase ASCII letter. The
// separator and the whitespace after such a comma are dropped.
func splitCandidates(input string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '\n', ';':
			parts = append(parts, input[start:i])
			start = i + 1
		case ',':
			if i == 0 || !isWordByte(input[i-1]) {
				continue
			}
			j := i + 1
			for j < len(input) && isSpaceByte(input[j]) {
				j++
			}
			if j < len(input) && input[j] >= 'A' && input[j] <= 'Z' {
				parts = append(parts, input[start:i])
				start = j
				i = j - 1
			}
		}
	}
	return append(parts, input[start:])
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
