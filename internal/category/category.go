package category

import "strings"

// Category identifies a product domain with its own brand knowledge document.
type Category string

const (
	None        Category = ""
	Golf        Category = "golf"
	Outdoor     Category = "outdoor"
	Tech        Category = "tech"
	Fashion     Category = "fashion"
	Makeup      Category = "makeup"
	Photography Category = "photography"
	Gaming      Category = "gaming"
	Music       Category = "music"
	Fitness     Category = "fitness"
	Travel      Category = "travel"
	EDC         Category = "edc"
)

// keywordEntry pairs a category with its detection keywords. A slice keeps the
// scan order fixed so classification stays order-stable.
type keywordEntry struct {
	category Category
	keywords []string
}

var keywordTable = []keywordEntry{
	{Golf, []string{"golf", "driver", "iron", "putter", "wedge", "titleist", "taylormade", "callaway", "ping", "mizuno"}},
	{Outdoor, []string{"hiking", "camping", "backpack", "tent", "outdoor", "trail", "osprey", "patagonia", "arc'teryx"}},
	{Tech, []string{"tech", "gadget", "electronics", "laptop", "phone", "tablet", "apple", "samsung", "sony"}},
	{Fashion, []string{"fashion", "clothing", "apparel", "shirt", "pants", "dress", "nike", "adidas", "supreme"}},
	{Makeup, []string{"makeup", "cosmetics", "beauty", "lipstick", "foundation", "mascara", "fenty", "mac", "nars"}},
	{Photography, []string{"camera", "lens", "photography", "photo", "video", "canon", "nikon", "sony", "fujifilm"}},
	{Gaming, []string{"gaming", "game", "console", "pc", "xbox", "playstation", "nintendo", "razer", "logitech"}},
	{Music, []string{"music", "guitar", "piano", "drums", "audio", "studio", "fender", "gibson", "yamaha"}},
	{Fitness, []string{"fitness", "gym", "workout", "exercise", "crossfit", "weights", "rogue", "nike", "under armour"}},
	{Travel, []string{"travel", "luggage", "suitcase", "bag", "carry-on", "samsonite", "away", "rimowa"}},
	{EDC, []string{"edc", "everyday carry", "knife", "flashlight", "wallet", "benchmade", "spyderco", "leatherman"}},
}

// All returns every known category in scan order.
func All() []Category {
	out := make([]Category, 0, len(keywordTable))
	for _, entry := range keywordTable {
		out = append(out, entry.category)
	}
	return out
}

// Detect classifies input text into a category. If hint is non-empty, the
// first category with any substring match in the hint wins. Otherwise every
// category is scored by keyword hits in text and the category with the
// strictly highest score wins; ties and zero totals yield None.
func Detect(hint, text string) Category {
	if hint = strings.ToLower(strings.TrimSpace(hint)); hint != "" {
		for _, entry := range keywordTable {
			for _, keyword := range entry.keywords {
				if strings.Contains(hint, keyword) {
					return entry.category
				}
			}
		}
	}

	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return None
	}

	best := None
	bestScore := 0
	tied := false
	for _, entry := range keywordTable {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best = entry.category
			bestScore = score
			tied = false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return None
	}
	return best
}
