// Package taxonomy holds the static content type profiles and the offline media
// knowledge base. Everything here is read-only after package initialization; slices
// are ordered because declaration order breaks scoring ties.
package taxonomy

import "github.com/kirillkom/confract/internal/core/domain"

const (
	Watchlist     = "watchlist"
	Research      = "research"
	Tasks         = "tasks"
	Documentation = "documentation"
	Notes         = "notes"

	// FallbackSection is used when a content type declares no sections.
	FallbackSection = "main"
)

var contentTypes = []domain.ContentType{
	{
		Key:          Watchlist,
		Label:        "Entertainment watchlist",
		Emoji:        "🎬",
		DefaultTitle: "Watchlist",
		Keywords:     []string{"watch", "movie", "film", "series", "anime", "show", "episode", "season", "netflix", "hbo", "disney", "seen", "rewatch"},
		Sections: []domain.SectionDefinition{
			{Key: "movies", Keywords: []string{"film", "movie", "cinema", "directed"}, Emoji: "🎬", Category: "movies"},
			{Key: "tv", Keywords: []string{"series", "show", "season", "episode", "tv", "sitcom", "miniseries"}, Emoji: "📺", Category: "tv"},
			{Key: "anime", Keywords: []string{"anime", "manga", "shonen", "seinen", "crunchyroll", "ova", "dubbed"}, Emoji: "⛩", Category: "anime"},
			{Key: "unclear", Emoji: "❓", Category: "unclear"},
		},
		SectionNames: map[string]string{"movies": "Movies", "tv": "TV Shows", "anime": "Anime", "unclear": "Unclear"},
	},
	{
		Key:          Research,
		Label:        "Research notes",
		Emoji:        "🔬",
		DefaultTitle: "Research Notes",
		Keywords:     []string{"research", "study", "paper", "thesis", "journal", "citation", "hypothesis", "experiment", "abstract", "methodology", "findings", "peer reviewed", "academic", "conclusion", "data", "analysis"},
		Sections: []domain.SectionDefinition{
			{Key: "concepts", Keywords: []string{"theory", "concept", "principle", "define", "definition", "model"}, Emoji: "💡", Category: "research"},
			{Key: "data", Keywords: []string{"data", "result", "finding", "statistic", "percent", "average", "mean", "measured"}, Emoji: "📊", Category: "research"},
			{Key: "sources", Keywords: []string{"source", "citation", "reference", "according", "author", "published"}, Emoji: "📚", Category: "notes"},
			{Key: "questions", Keywords: []string{"?", "unknown", "unclear", "why", "how does", "further research"}, Emoji: "❓", Category: "unclear"},
		},
		SectionNames: map[string]string{"concepts": "Core Concepts", "data": "Key Data", "sources": "Sources", "questions": "Open Questions"},
	},
	{
		Key:          Tasks,
		Label:        "Task list",
		Emoji:        "✅",
		DefaultTitle: "Task List",
		Keywords:     []string{"todo", "to-do", "task", "action", "complete", "done", "pending", "deadline", "due", "sprint", "backlog", "milestone", "deliverable", "assign", "priority"},
		Sections: []domain.SectionDefinition{
			{Key: "urgent", Keywords: []string{"urgent", "asap", "immediately", "critical", "today", "priority", "blocker"}, Emoji: "🔥", Category: "tasks"},
			{Key: "pending", Keywords: []string{"todo", "pending", "next", "backlog", "planned", "upcoming", "should"}, Emoji: "📋", Category: "tasks"},
			{Key: "done", Keywords: []string{"done", "complete", "finished", "resolved", "shipped", "✓", "✅", "closed"}, Emoji: "✅", Category: "tasks"},
			{Key: "blocked", Keywords: []string{"blocked", "waiting", "depends", "need", "hold", "on hold"}, Emoji: "🚧", Category: "tasks"},
		},
		SectionNames: map[string]string{"urgent": "Urgent", "pending": "To Do", "done": "Done", "blocked": "Blocked"},
	},
	{
		Key:          Documentation,
		Label:        "Technical documentation",
		Emoji:        "📖",
		DefaultTitle: "Documentation",
		Keywords:     []string{"install", "setup", "config", "endpoint", "api", "function", "class", "method", "parameter", "returns", "usage", "import", "require", "npm", "pip", "yarn", "package", "module", "library", "dependency", "code", "syntax"},
		Sections: []domain.SectionDefinition{
			{Key: "overview", Keywords: []string{"overview", "intro", "about", "what is", "purpose", "description"}, Emoji: "📋", Category: "notes"},
			{Key: "installation", Keywords: []string{"install", "setup", "npm", "pip", "yarn", "requirements", "dependencies", "brew"}, Emoji: "⚙️", Category: "notes"},
			{Key: "usage", Keywords: []string{"usage", "example", "how to", "use", "call", "invoke", "run"}, Emoji: "💻", Category: "notes"},
			{Key: "api", Keywords: []string{"api", "endpoint", "function", "method", "class", "parameter", "returns", "route"}, Emoji: "🔌", Category: "notes"},
			{Key: "config", Keywords: []string{"config", "option", "setting", "env", "variable", "flag", ".env"}, Emoji: "🔧", Category: "notes"},
			{Key: "notes", Keywords: []string{"note", "warning", "tip", "important", "caveat", "gotcha", "known issue"}, Emoji: "📝", Category: "notes"},
		},
		SectionNames: map[string]string{"overview": "Overview", "installation": "Installation", "usage": "Usage", "api": "API Reference", "config": "Configuration", "notes": "Notes"},
	},
	{
		Key:          Notes,
		Label:        "General notes",
		Emoji:        "📝",
		DefaultTitle: "Notes",
		Sections: []domain.SectionDefinition{
			{Key: FallbackSection, Emoji: "📝", Category: "notes"},
			{Key: "unclear", Emoji: "❓", Category: "unclear"},
		},
		SectionNames: map[string]string{FallbackSection: "Notes", "unclear": "Unclear"},
	},
}

// ContentTypes returns the five profiles in declaration order. The returned slice is a
// copy; profile contents must not be modified.
func ContentTypes() []domain.ContentType {
	out := make([]domain.ContentType, len(contentTypes))
	copy(out, contentTypes)
	return out
}

// Lookup returns the profile registered under key.
func Lookup(key string) (domain.ContentType, bool) {
	for _, ct := range contentTypes {
		if ct.Key == key {
			return ct, true
		}
	}
	return domain.ContentType{}, false
}

// MustLookup is Lookup for keys declared in this package.
func MustLookup(key string) domain.ContentType {
	ct, ok := Lookup(key)
	if !ok {
		panic("taxonomy: unknown content type " + key)
	}
	return ct
}

// LookupByLabel resolves a profile from its display label, as stored on documents.
func LookupByLabel(label string) (domain.ContentType, bool) {
	for _, ct := range contentTypes {
		if ct.Label == label {
			return ct, true
		}
	}
	return domain.ContentType{}, false
}
