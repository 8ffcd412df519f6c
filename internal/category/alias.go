package category

import "strings"

// aliasTable maps user-facing category spellings to canonical categories.
var aliasTable = map[string]Category{
	"golf":           Golf,
	"golf club":      Golf,
	"golf clubs":     Golf,
	"golf equipment": Golf,
	"driver":         Golf,
	"irons":          Golf,
	"putter":         Golf,

	"outdoor":     Outdoor,
	"camping":     Outdoor,
	"hiking":      Outdoor,
	"backpacking": Outdoor,

	"tech":        Tech,
	"technology":  Tech,
	"electronics": Tech,
	"gadgets":     Tech,

	"fashion":  Fashion,
	"clothing": Fashion,
	"apparel":  Fashion,

	"makeup":    Makeup,
	"cosmetics": Makeup,
	"beauty":    Makeup,

	"photography": Photography,
	"camera":      Photography,
	"cameras":     Photography,
	"photo":       Photography,
	"video":       Photography,

	"gaming":    Gaming,
	"game":      Gaming,
	"games":     Gaming,
	"esports":   Gaming,
	"pc gaming": Gaming,

	"music":       Music,
	"audio":       Music,
	"instruments": Music,
	"guitar":      Music,
	"studio":      Music,

	"fitness":  Fitness,
	"gym":      Fitness,
	"workout":  Fitness,
	"exercise": Fitness,
	"crossfit": Fitness,
	"sports":   Fitness,

	"travel":   Travel,
	"luggage":  Travel,
	"bags":     Travel,
	"suitcase": Travel,

	"edc":            EDC,
	"everyday carry": EDC,
	"knife":          EDC,
	"knives":         EDC,
	"flashlight":     EDC,
	"wallet":         EDC,
}

// Normalize canonicalizes a category spelling. Unknown spellings map to None.
func Normalize(value string) Category {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return None
	}
	if canonical, ok := aliasTable[lower]; ok {
		return canonical
	}
	// Already-canonical names pass through.
	for _, entry := range keywordTable {
		if string(entry.category) == lower {
			return entry.category
		}
	}
	return None
}
