package category_test

import (
	"testing"

	"prodid/internal/category"
)

func TestDetectHintWinsOverText(t *testing.T) {
	got := category.Detect("golf bag", "my new laptop and phone arrived")
	if got != category.Golf {
		t.Fatalf("Detect returned %q, want golf", got)
	}
}

func TestDetectScoresCombinedText(t *testing.T) {
	got := category.Detect("", "packed the tent and backpack for a hiking trip on the trail")
	if got != category.Outdoor {
		t.Fatalf("Detect returned %q, want outdoor", got)
	}
}

func TestDetectTieYieldsNone(t *testing.T) {
	// One golf keyword and one makeup keyword, nothing else.
	got := category.Detect("", "a putter and a lipstick")
	if got != category.None {
		t.Fatalf("Detect returned %q, want none on a tie", got)
	}
}

func TestDetectZeroScoreYieldsNone(t *testing.T) {
	if got := category.Detect("", "completely unrelated words"); got != category.None {
		t.Fatalf("Detect returned %q, want none", got)
	}
	if got := category.Detect("", ""); got != category.None {
		t.Fatalf("Detect returned %q for empty text, want none", got)
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	const text = "taylormade driver with a new golf glove"
	first := category.Detect("", text)
	for i := 0; i < 50; i++ {
		if got := category.Detect("", text); got != first {
			t.Fatalf("Detect flapped: %q then %q", first, got)
		}
	}
	if first != category.Golf {
		t.Fatalf("Detect returned %q, want golf", first)
	}
}

func TestDetectHintIsCaseInsensitive(t *testing.T) {
	if got := category.Detect("GOLF Clubs", ""); got != category.Golf {
		t.Fatalf("Detect returned %q, want golf", got)
	}
}

func TestNormalizeAliases(t *testing.T) {
	cases := map[string]category.Category{
		"Golf Clubs":     category.Golf,
		"cosmetics":      category.Makeup,
		"Electronics":    category.Tech,
		"cameras":        category.Photography,
		"everyday carry": category.EDC,
		"photography":    category.Photography,
		"":               category.None,
		"unknown":        category.None,
	}
	for input, want := range cases {
		if got := category.Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAllCoversKeywordTable(t *testing.T) {
	all := category.All()
	if len(all) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(all))
	}
	seen := make(map[category.Category]bool)
	for _, cat := range all {
		if cat == category.None {
			t.Fatal("All returned the empty category")
		}
		if seen[cat] {
			t.Fatalf("duplicate category %q", cat)
		}
		seen[cat] = true
	}
}
