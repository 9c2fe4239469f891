package classify

import (
	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/taxonomy"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const (
	longFormWords   = 8
	truncatedWords  = 6
	defaultCategory = "notes"
)

// ClassifyLines assigns every line to exactly one section key of ct.
func ClassifyLines(lines []domain.Line, ct domain.ContentType) []domain.ClassifiedItem {
	out := make([]domain.ClassifiedItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, ClassifyLine(line, ct))
	}
	return out
}

func ClassifyLine(line domain.Line, ct domain.ContentType) domain.ClassifiedItem {
	normalized := line.Normalized
	if normalized == "" {
		normalized = textutil.Normalize(line.Text)
	}

	if ct.Key == taxonomy.Watchlist {
		category := taxonomy.LookupMedia(normalized)
		return domain.ClassifiedItem{
			Name:       textutil.TitleCase(line.Text),
			SectionKey: category,
			Category:   category,
			Raw:        normalized,
		}
	}

	key := bestSection(normalized, ct)
	category := defaultCategory
	if sec, ok := ct.Section(key); ok && sec.Category != "" {
		category = sec.Category
	}

	item := domain.ClassifiedItem{
		Name:       textutil.TitleCase(line.Text),
		SectionKey: key,
		Category:   category,
		Raw:        normalized,
	}
	if wordCount(line) > longFormWords {
		item.Name = textutil.TruncateWords(line.Text, truncatedWords)
		item.Note = line.Text
	}
	return item
}

// bestSection scores sections by keyword overlap; ties and all-zero scores resolve to the
// first declared section.
func bestSection(normalized string, ct domain.ContentType) string {
	if len(ct.Sections) == 0 {
		return taxonomy.FallbackSection
	}
	best, bestScore := ct.Sections[0].Key, -1
	for _, sec := range ct.Sections {
		score := countKeywords(normalized, sec.Keywords)
		if score > bestScore {
			best, bestScore = sec.Key, score
		}
	}
	return best
}

func wordCount(line domain.Line) int {
	if line.WordCount > 0 {
		return line.WordCount
	}
	return textutil.WordCount(line.Text)
}
