package knowledge_test

import (
	"strings"
	"testing"

	"prodid/internal/category"
	"prodid/internal/knowledge"
)

func TestLoadEveryKnownCategory(t *testing.T) {
	registry := knowledge.NewRegistry()
	for _, cat := range category.All() {
		doc, ok := registry.Load(cat)
		if !ok {
			t.Fatalf("no knowledge document for %q", cat)
		}
		if doc.Category != cat {
			t.Fatalf("document for %q reports category %q", cat, doc.Category)
		}
		if len(doc.Brands) == 0 {
			t.Fatalf("document for %q has no brands", cat)
		}
	}
}

func TestLoadNoneAndUnknownDegrade(t *testing.T) {
	registry := knowledge.NewRegistry()
	if _, ok := registry.Load(category.None); ok {
		t.Fatal("expected no document for the empty category")
	}
	if _, ok := registry.Load(category.Category("submarines")); ok {
		t.Fatal("expected no document for an unknown category")
	}
}

func TestContextEmptyWithoutCategories(t *testing.T) {
	registry := knowledge.NewRegistry()
	if got := registry.Context(nil, knowledge.VerbosityStandard); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
	if got := registry.Context([]category.Category{category.None}, knowledge.VerbosityStandard); got != "" {
		t.Fatalf("expected empty context for no category, got %q", got)
	}
}

func TestContextIncludesBrandsAndHeader(t *testing.T) {
	registry := knowledge.NewRegistry()
	ctx := registry.Context([]category.Category{category.Golf}, knowledge.VerbosityStandard)
	if !strings.Contains(ctx, "BRAND KNOWLEDGE BASE") {
		t.Fatal("context missing header")
	}
	if !strings.Contains(ctx, "GOLF BRANDS") {
		t.Fatal("context missing category section")
	}
	if !strings.Contains(ctx, "TaylorMade") {
		t.Fatal("context missing TaylorMade entry")
	}
}

func TestVerbosityControlsBrandCount(t *testing.T) {
	registry := knowledge.NewRegistry()
	doc, ok := registry.Load(category.Golf)
	if !ok {
		t.Fatal("golf document missing")
	}
	if len(doc.Brands) <= 3 {
		t.Skipf("golf document has only %d brands", len(doc.Brands))
	}

	minimal := registry.Context([]category.Category{category.Golf}, knowledge.VerbosityMinimal)
	detailed := registry.Context([]category.Category{category.Golf}, knowledge.VerbosityDetailed)

	minimalCount := strings.Count(minimal, "\n- ")
	if minimalCount > 3 {
		t.Fatalf("minimal verbosity lists %d brands, want at most 3", minimalCount)
	}
	last := doc.Brands[len(doc.Brands)-1].Name
	if strings.Contains(minimal, last) {
		t.Fatalf("minimal verbosity should omit %q", last)
	}
	if !strings.Contains(detailed, last) {
		t.Fatalf("detailed verbosity should include %q", last)
	}
}

func TestMinimalVerbositySkipsColorTerms(t *testing.T) {
	registry := knowledge.NewRegistry()
	minimal := registry.Context([]category.Category{category.Golf}, knowledge.VerbosityMinimal)
	if strings.Contains(minimal, "COLOR TERMS") {
		t.Fatal("minimal verbosity should not render color vocabulary")
	}
	standard := registry.Context([]category.Category{category.Golf}, knowledge.VerbosityStandard)
	if !strings.Contains(standard, "COLOR TERMS") {
		t.Fatal("standard verbosity should render color vocabulary")
	}
}

func TestParseVerbosityDefaultsToStandard(t *testing.T) {
	if got := knowledge.ParseVerbosity("detailed"); got != knowledge.VerbosityDetailed {
		t.Fatalf("ParseVerbosity(detailed) = %q", got)
	}
	if got := knowledge.ParseVerbosity("bogus"); got != knowledge.VerbosityStandard {
		t.Fatalf("ParseVerbosity(bogus) = %q, want standard", got)
	}
}
