package learned_test

import (
	"context"
	"testing"
	"time"

	"prodid/internal/learned"
	"prodid/internal/testsupport"
)

func TestObserveUpsertIncrementsOccurrences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	sighting := learned.Sighting{Brand: "TaylorMade", Name: "Stealth 2 Driver", Category: "golf", Confidence: 0.9}
	const n = 5
	for i := 0; i < n; i++ {
		if err := store.Observe(ctx, sighting); err != nil {
			t.Fatalf("Observe %d failed: %v", i, err)
		}
	}

	product, found, err := store.Lookup(ctx, "TaylorMade", "Stealth 2 Driver", "golf")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !found {
		t.Fatal("expected sighting to be learned")
	}
	if product.OccurrenceCount != n {
		t.Fatalf("occurrence count = %d, want %d", product.OccurrenceCount, n)
	}
	if product.LastSeenAt.Before(product.FirstSeenAt) {
		t.Fatalf("last seen %v precedes first seen %v", product.LastSeenAt, product.FirstSeenAt)
	}
	if time.Since(product.LastSeenAt) > time.Minute {
		t.Fatalf("last seen %v is stale", product.LastSeenAt)
	}
}

func TestObserveNormalizesKeyButKeepsDisplayForm(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.Observe(ctx, learned.Sighting{Brand: "TaylorMade", Name: "Stealth 2 Driver", Category: "golf", Confidence: 0.9}); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if err := store.Observe(ctx, learned.Sighting{Brand: "taylormade", Name: "STEALTH 2 DRIVER", Category: "Golf", Confidence: 0.8}); err != nil {
		t.Fatalf("Observe variant failed: %v", err)
	}

	product, found, err := store.Lookup(ctx, "TAYLORMADE", "stealth 2 driver", "golf")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !found {
		t.Fatal("case variants should share one key")
	}
	if product.OccurrenceCount != 2 {
		t.Fatalf("occurrence count = %d, want 2", product.OccurrenceCount)
	}
	// First sighting's display form wins; confidence keeps the maximum.
	if product.Brand != "TaylorMade" {
		t.Fatalf("display brand = %q", product.Brand)
	}
	if product.Confidence != 0.9 {
		t.Fatalf("confidence = %v, want 0.9", product.Confidence)
	}
}

func TestObserveInterleavedKeysStayIndependent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := learned.Sighting{Brand: "Benchmade", Name: "Bugout 535", Category: "edc", Confidence: 0.8}
	b := learned.Sighting{Brand: "Spyderco", Name: "Paramilitary 2", Category: "edc", Confidence: 0.8}
	for i := 0; i < 3; i++ {
		if err := store.Observe(ctx, a); err != nil {
			t.Fatalf("Observe a: %v", err)
		}
		if err := store.Observe(ctx, b); err != nil {
			t.Fatalf("Observe b: %v", err)
		}
	}
	if err := store.Observe(ctx, a); err != nil {
		t.Fatalf("Observe a: %v", err)
	}

	productA, _, err := store.Lookup(ctx, "Benchmade", "Bugout 535", "edc")
	if err != nil {
		t.Fatalf("Lookup a: %v", err)
	}
	productB, _, err := store.Lookup(ctx, "Spyderco", "Paramilitary 2", "edc")
	if err != nil {
		t.Fatalf("Lookup b: %v", err)
	}
	if productA.OccurrenceCount != 4 || productB.OccurrenceCount != 3 {
		t.Fatalf("counts = %d/%d, want 4/3", productA.OccurrenceCount, productB.OccurrenceCount)
	}
}

func TestShouldLearn(t *testing.T) {
	cases := []struct {
		sighting learned.Sighting
		floor    float64
		want     bool
	}{
		// A non-positive floor falls back to the 0.75 default.
		{learned.Sighting{Name: "Product", Confidence: 0.9}, 0, true},
		{learned.Sighting{Name: "Product", Confidence: 0.75}, 0, true},
		{learned.Sighting{Name: "Product", Confidence: 0.74}, 0, false},
		{learned.Sighting{Name: "Product", Confidence: 0.2, Corrected: true}, 0, true},
		{learned.Sighting{Name: "", Confidence: 0.99}, 0, false},
		// A configured floor replaces the default in both directions.
		{learned.Sighting{Name: "Product", Confidence: 0.6}, 0.5, true},
		{learned.Sighting{Name: "Product", Confidence: 0.8}, 0.9, false},
		{learned.Sighting{Name: "Product", Confidence: 0.3, Corrected: true}, 0.9, true},
	}
	for _, tc := range cases {
		if got := tc.sighting.ShouldLearn(tc.floor); got != tc.want {
			t.Fatalf("ShouldLearn(%+v, %v) = %v, want %v", tc.sighting, tc.floor, got, tc.want)
		}
	}
}

func TestCorrectionsAreAppendOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.RecordCorrection(ctx, "item-1", "name", "Stealth Driver", "Stealth 2 Driver")
	if err != nil {
		t.Fatalf("RecordCorrection failed: %v", err)
	}
	if first.Summary != `name: "Stealth Driver" -> "Stealth 2 Driver"` {
		t.Fatalf("unexpected summary %q", first.Summary)
	}

	// The same edit again is a second row, never merged.
	if _, err := store.RecordCorrection(ctx, "item-1", "name", "Stealth Driver", "Stealth 2 Driver"); err != nil {
		t.Fatalf("RecordCorrection repeat failed: %v", err)
	}
	if _, err := store.RecordCorrection(ctx, "item-1", "brand", "Taylor Made", "TaylorMade"); err != nil {
		t.Fatalf("RecordCorrection brand failed: %v", err)
	}

	corrections, err := store.CorrectionsForItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("CorrectionsForItem failed: %v", err)
	}
	if len(corrections) != 3 {
		t.Fatalf("expected 3 corrections, got %d", len(corrections))
	}
	if corrections[0].ID >= corrections[1].ID {
		t.Fatal("corrections not ordered oldest first")
	}
}

func TestStatsAggregates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Observe(ctx, learned.Sighting{Brand: "TaylorMade", Name: "Stealth 2 Driver", Category: "golf", Confidence: 0.9}); err != nil {
			t.Fatalf("Observe failed: %v", err)
		}
	}
	if _, err := store.RecordCorrection(ctx, "item-1", "name", "a", "b"); err != nil {
		t.Fatalf("RecordCorrection failed: %v", err)
	}
	if _, err := store.RecordCorrection(ctx, "item-2", "brand", "c", "d"); err != nil {
		t.Fatalf("RecordCorrection failed: %v", err)
	}
	events := []learned.TelemetryEvent{
		{Action: "accept", Stage: "commit", Confidence: 0.9, Status: "success"},
		{Action: "accept", Stage: "commit", Confidence: 0.7, Status: "success"},
		{Action: "abandon", Stage: "identify", Status: "rate_limited"},
	}
	for _, event := range events {
		if err := store.RecordTelemetry(ctx, event); err != nil {
			t.Fatalf("RecordTelemetry failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.LearnedProducts != 1 || stats.TotalSightings != 3 {
		t.Fatalf("products/sightings = %d/%d, want 1/3", stats.LearnedProducts, stats.TotalSightings)
	}
	if stats.Corrections != 2 {
		t.Fatalf("corrections = %d, want 2", stats.Corrections)
	}
	if stats.CorrectionsByField["name"] != 1 || stats.CorrectionsByField["brand"] != 1 {
		t.Fatalf("unexpected field breakdown %v", stats.CorrectionsByField)
	}
	if stats.EventsByAction["accept"] != 2 || stats.EventsByAction["abandon"] != 1 {
		t.Fatalf("unexpected action breakdown %v", stats.EventsByAction)
	}
	if stats.EventsByStatus["rate_limited"] != 1 {
		t.Fatalf("rate-limited events not tracked separately: %v", stats.EventsByStatus)
	}
	if len(stats.TopProducts) != 1 || stats.TopProducts[0].OccurrenceCount != 3 {
		t.Fatalf("unexpected top products %+v", stats.TopProducts)
	}
	if stats.AverageConfidence < 0.79 || stats.AverageConfidence > 0.81 {
		t.Fatalf("average confidence = %v, want ~0.8", stats.AverageConfidence)
	}
}

func TestRecordTelemetryRequiresAction(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.RecordTelemetry(context.Background(), learned.TelemetryEvent{}); err == nil {
		t.Fatal("expected error for missing action")
	}
}
