package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCaser = cases.Fold()

// NormalizeKey reduces a string to a case-folded alphanumeric form used for
// de-duplication keys. "TaylorMade " and "taylormade" normalize identically.
func NormalizeKey(value string) string {
	folded := foldCaser.String(strings.TrimSpace(value))
	if folded == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseWhitespace trims the string and collapses internal whitespace runs
// to single spaces.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Truncate shortens a string to at most limit runes, appending "..." when cut.
func Truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}

// TitleCase capitalizes each word. Used when echoing user-supplied category
// hints back in human-readable output.
func TitleCase(value string) string {
	return cases.Title(language.English).String(strings.TrimSpace(value))
}
