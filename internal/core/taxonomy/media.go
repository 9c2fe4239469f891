package taxonomy

import "strings"

const (
	MediaAnime   = "anime"
	MediaTV      = "tv"
	MediaMovies  = "movies"
	MediaUnclear = "unclear"
)

type titleSet struct {
	category string
	ordered  []string
	members  map[string]struct{}
}

func newTitleSet(category string, titles ...string) titleSet {
	s := titleSet{category: category, members: make(map[string]struct{}, len(titles))}
	for _, t := range titles {
		if _, dup := s.members[t]; dup {
			continue
		}
		s.members[t] = struct{}{}
		s.ordered = append(s.ordered, t)
	}
	return s
}

// mediaSets is scanned in order: anime, then tv, then movies.
var mediaSets = []titleSet{
	newTitleSet(MediaAnime,
		"samurai champloo", "naruto", "one piece", "attack on titan", "death note",
		"fullmetal alchemist", "dragon ball", "bleach", "demon slayer", "my hero academia",
		"jujutsu kaisen", "hunter x hunter", "sword art online", "tokyo ghoul", "cowboy bebop",
		"neon genesis evangelion", "steins gate", "code geass", "re zero", "mob psycho 100",
		"one punch man", "inazuma eleven", "mha vigilantes", "fairy tail", "black clover",
		"vinland saga", "made in abyss", "chainsaw man", "spy x family", "bocchi the rock",
		"dr stone", "the promised neverland", "erased", "clannad", "toradora", "haikyuu",
		"violet evergarden", "your lie in april", "anohana", "angel beats", "relife",
		"no game no life", "overlord", "log horizon", "danmachi",
		"fullmetal alchemist brotherhood", "blue exorcist", "soul eater", "gurren lagann",
		"kill la kill", "psycho pass", "aldnoah zero", "guilty crown", "darling in the franxx",
		"komi cant communicate", "shikimori", "spy family", "summertime rendering", "lycoris recoil",
	),
	newTitleSet(MediaTV,
		"breaking bad", "better call saul", "the wire", "sopranos", "game of thrones",
		"stranger things", "dark", "black mirror", "westworld", "the crown", "succession",
		"ted lasso", "the office", "parks and recreation", "community", "arrested development",
		"peaky blinders", "mindhunter", "true detective", "ozark", "squid game",
		"the witcher", "house of the dragon", "andor", "the mandalorian", "loki",
		"what we do in the shadows", "barry", "fleabag", "derry girls", "schitts creek",
		"it crowd", "the it crowd", "band of brothers", "chernobyl", "last of us",
		"gravity falls", "adventure time", "rick and morty", "futurama", "south park",
		"arcane", "the bear", "white lotus", "euphoria", "yellowjackets", "severance",
		"foundation", "for all mankind", "station eleven", "the boys", "invincible",
		"over the garden wall", "regular show", "steven universe", "bojack horseman",
		"avatar the last airbender", "the legend of korra", "clone wars",
	),
	newTitleSet(MediaMovies,
		"inception", "interstellar", "the dark knight", "pulp fiction", "fight club",
		"the matrix", "goodfellas", "schindlers list", "shawshank redemption",
		"forrest gump", "the godfather", "silence of the lambs", "no country for old men",
		"parasite", "everything everywhere all at once", "wolf of wall street",
		"the revenant", "mad max fury road", "whiplash", "la la land", "moonlight",
		"get out", "hereditary", "midsommar", "the lighthouse", "uncut gems",
		"good will hunting", "goodwill hunting", "training day", "shaolin soccer",
		"kung fu hustle", "oldboy", "the raid", "crouching tiger hidden dragon",
		"leon the professional", "city of god", "amelie", "pans labyrinth",
		"despicable me", "minions", "shrek", "toy story", "finding nemo", "wall-e", "up",
		"inside out", "coco", "encanto", "moana", "howls moving castle", "spirited away",
		"blade runner 2049", "dune", "arrival", "ex machina", "annihilation",
		"the martian", "gravity", "ford v ferrari", "free guy",
		"eternal sunshine of the spotless mind", "500 days of summer",
		"into the wild", "the secret life of walter mitty", "princess mononoke",
	),
}

// LookupMedia maps a normalized title to anime, tv, movies or unclear. Exact membership
// is tried across all sets before the substring fallback.
func LookupMedia(normalized string) string {
	if normalized == "" {
		return MediaUnclear
	}
	for _, set := range mediaSets {
		if _, ok := set.members[normalized]; ok {
			return set.category
		}
	}
	for _, set := range mediaSets {
		for _, title := range set.ordered {
			if strings.Contains(normalized, title) || strings.Contains(title, normalized) {
				return set.category
			}
		}
	}
	return MediaUnclear
}
