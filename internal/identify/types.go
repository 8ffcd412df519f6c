package identify

import (
	"strings"

	"prodid/internal/category"
)

// Source records which path produced a candidate.
const (
	SourceVision  = "vision"
	SourceText    = "text"
	SourceLearned = "learned"
)

// IdentifiedProduct is one ranked identification candidate.
type IdentifiedProduct struct {
	Name        string            `json:"name"`
	Brand       string            `json:"brand,omitempty"`
	Category    category.Category `json:"category,omitempty"`
	Description string            `json:"description,omitempty"`
	Confidence  float64           `json:"confidence"`
	Reasoning   string            `json:"reasoning,omitempty"`
	Source      string            `json:"source,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DisplayName renders "Brand Name" without duplicating the brand when the
// model already folded it into the product name.
func (p IdentifiedProduct) DisplayName() string {
	brand := strings.TrimSpace(p.Brand)
	name := strings.TrimSpace(p.Name)
	if brand == "" || strings.HasPrefix(strings.ToLower(name), strings.ToLower(brand)) {
		return name
	}
	return brand + " " + name
}

// Band is the confidence band a score falls into. Bands partition the whole
// score range with no gaps and no overlap.
type Band string

const (
	BandVeryHigh Band = "very_high"
	BandHigh     Band = "high"
	BandModerate Band = "moderate"
	BandLow      Band = "low"
	BandVeryLow  Band = "very_low"
)

// BandFor maps a confidence score in [0, 1] to its band. Scores outside the
// range are clamped first so callers always get a valid band back.
func BandFor(confidence float64) Band {
	pct := confidence * 100
	switch {
	case pct >= 90:
		return BandVeryHigh
	case pct >= 70:
		return BandHigh
	case pct >= 50:
		return BandModerate
	case pct >= 30:
		return BandLow
	default:
		return BandVeryLow
	}
}

// Label returns a short human description of the band.
func (b Band) Label() string {
	switch b {
	case BandVeryHigh:
		return "Very high: exact product and model identified"
	case BandHigh:
		return "High: product identified, minor ambiguity remains"
	case BandModerate:
		return "Moderate: product type clear, specific model uncertain"
	case BandLow:
		return "Low: educated guess from partial cues"
	default:
		return "Very low: insufficient information"
	}
}

// Result is the structured outcome for one item. A degraded result carries an
// empty candidate list plus the cause, so a batch can keep moving while the
// caller can still tell "no suggestion produced" apart from "suggestion
// produced with zero confidence".
type Result struct {
	Candidates []IdentifiedProduct `json:"candidates"`
	Degraded   bool                `json:"degraded,omitempty"`
	Cause      error               `json:"-"`
}

// Best returns the highest-confidence candidate, or false when the result is
// empty.
func (r Result) Best() (IdentifiedProduct, bool) {
	if len(r.Candidates) == 0 {
		return IdentifiedProduct{}, false
	}
	return r.Candidates[0], true
}
