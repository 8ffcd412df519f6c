package identify_test

import (
	"testing"

	"prodid/internal/identify"
)

func TestBandsAreExhaustiveAndNonOverlapping(t *testing.T) {
	// Sweep the whole percent range; every score maps to exactly one band.
	counts := make(map[identify.Band]int)
	for pct := 0; pct <= 100; pct++ {
		band := identify.BandFor(float64(pct) / 100)
		switch band {
		case identify.BandVeryHigh, identify.BandHigh, identify.BandModerate, identify.BandLow, identify.BandVeryLow:
			counts[band]++
		default:
			t.Fatalf("score %d%% mapped to unknown band %q", pct, band)
		}
	}
	if len(counts) != 5 {
		t.Fatalf("expected all 5 bands to be reachable, got %v", counts)
	}
}

func TestBandBoundaries(t *testing.T) {
	cases := []struct {
		confidence float64
		want       identify.Band
	}{
		{1.0, identify.BandVeryHigh},
		{0.90, identify.BandVeryHigh},
		{0.89, identify.BandHigh},
		{0.70, identify.BandHigh},
		{0.69, identify.BandModerate},
		{0.50, identify.BandModerate},
		{0.49, identify.BandLow},
		{0.30, identify.BandLow},
		{0.29, identify.BandVeryLow},
		{0.0, identify.BandVeryLow},
	}
	for _, tc := range cases {
		if got := identify.BandFor(tc.confidence); got != tc.want {
			t.Fatalf("BandFor(%v) = %q, want %q", tc.confidence, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		product identify.IdentifiedProduct
		want    string
	}{
		{identify.IdentifiedProduct{Name: "Stealth 2 Driver", Brand: "TaylorMade"}, "TaylorMade Stealth 2 Driver"},
		{identify.IdentifiedProduct{Name: "TaylorMade Stealth 2", Brand: "TaylorMade"}, "TaylorMade Stealth 2"},
		{identify.IdentifiedProduct{Name: "Mystery Gadget"}, "Mystery Gadget"},
	}
	for _, tc := range cases {
		if got := tc.product.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
		}
	}
}
