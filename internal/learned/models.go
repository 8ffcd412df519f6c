package learned

import (
	"time"

	"prodid/internal/textutil"
)

// MinConfidenceForLearning is the default floor below which an uncorrected
// sighting is not folded into the store. The identify.learn_min_confidence
// config knob overrides it.
const MinConfidenceForLearning = 0.75

// Sighting is one observation of a product that may be worth learning.
type Sighting struct {
	Brand      string
	Name       string
	Category   string
	Confidence float64
	Corrected  bool
}

// ShouldLearn reports whether a sighting qualifies for the store: either the
// user corrected it (ground truth) or the pipeline cleared minConfidence on
// its own. A non-positive minConfidence falls back to the default floor.
func (s Sighting) ShouldLearn(minConfidence float64) bool {
	if s.Name == "" {
		return false
	}
	if minConfidence <= 0 {
		minConfidence = MinConfidenceForLearning
	}
	return s.Corrected || s.Confidence >= minConfidence
}

// Key is the normalized (brand, name, category) identity used for upserts.
func (s Sighting) Key() string {
	return textutil.NormalizeKey(s.Brand) + "|" + textutil.NormalizeKey(s.Name) + "|" + textutil.NormalizeKey(s.Category)
}

// LearnedProduct is one de-duplicated row in the store.
type LearnedProduct struct {
	ID              int64     `json:"id"`
	Brand           string    `json:"brand"`
	Name            string    `json:"name"`
	Category        string    `json:"category,omitempty"`
	Confidence      float64   `json:"confidence"`
	OccurrenceCount int64     `json:"occurrenceCount"`
	FirstSeenAt     time.Time `json:"firstSeenAt"`
	LastSeenAt      time.Time `json:"lastSeenAt"`
}

// Correction is one append-only user edit. Summary renders the change in the
// form `field: "old" -> "new"` for trend reporting.
type Correction struct {
	ID             int64     `json:"id"`
	ItemID         string    `json:"itemId"`
	Field          string    `json:"field"`
	OriginalValue  string    `json:"originalValue"`
	CorrectedValue string    `json:"correctedValue"`
	Summary        string    `json:"summary"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TelemetryEvent is one user-visible decision point, recorded for aggregate
// reporting only.
type TelemetryEvent struct {
	Action           string  `json:"action"`
	Stage            string  `json:"stage"`
	Category         string  `json:"category,omitempty"`
	Confidence       float64 `json:"confidence"`
	TimeToDecisionMS int64   `json:"timeToDecisionMs"`
	Status           string  `json:"status"`
}

// Stats aggregates the store for reporting.
type Stats struct {
	LearnedProducts    int64            `json:"learnedProducts"`
	TotalSightings     int64            `json:"totalSightings"`
	Corrections        int64            `json:"corrections"`
	CorrectionsByField map[string]int64 `json:"correctionsByField,omitempty"`
	EventsByAction     map[string]int64 `json:"eventsByAction,omitempty"`
	EventsByStage      map[string]int64 `json:"eventsByStage,omitempty"`
	EventsByStatus     map[string]int64 `json:"eventsByStatus,omitempty"`
	AverageConfidence  float64          `json:"averageConfidence"`
	TopProducts        []LearnedProduct `json:"topProducts,omitempty"`
}
