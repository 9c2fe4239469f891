// Package classify scores raw input against the static content type profiles and
// assigns each segmented line to a section of the winning profile.
package classify

import (
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/taxonomy"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const (
	shortLineWords = 5
	longLineWords  = 15

	shortLineWatchlistBonus    = 3
	longLineResearchBonus      = 2
	longLineDocumentationBonus = 1
)

// DetectContentType picks the profile whose keywords best cover input. Ties go to the
// earliest declared profile and a zero winning score falls back to notes.
func DetectContentType(input string, lines []domain.Line) domain.Detection {
	text := textutil.Normalize(input)
	profiles := taxonomy.ContentTypes()

	scores := make(map[string]int, len(profiles))
	for _, ct := range profiles {
		scores[ct.Key] = countKeywords(text, ct.Keywords)
	}

	avg := averageWords(lines)
	if avg < shortLineWords {
		scores[taxonomy.Watchlist] += shortLineWatchlistBonus
	}
	if avg > longLineWords {
		scores[taxonomy.Research] += longLineResearchBonus
		scores[taxonomy.Documentation] += longLineDocumentationBonus
	}

	best := profiles[0]
	for _, ct := range profiles[1:] {
		if scores[ct.Key] > scores[best.Key] {
			best = ct
		}
	}
	if scores[best.Key] <= 0 {
		best = taxonomy.MustLookup(taxonomy.Notes)
	}

	return domain.Detection{Type: best, AvgWords: avg, Scores: scores}
}

// countKeywords counts distinct keywords occurring in text as substrings.
func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func averageWords(lines []domain.Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	total := 0
	for _, l := range lines {
		total += l.WordCount
	}
	return float64(total) / float64(len(lines))
}
