package pipeline

import (
	"fmt"
	"sync"
	"time"

	"prodid/internal/clarify"
	"prodid/internal/identify"
	"prodid/internal/region"
)

// Status is the lifecycle state of one item.
type Status string

const (
	StatusPending               Status = "pending"
	StatusDetecting             Status = "detecting"
	StatusIdentifying           Status = "identifying"
	StatusEnriching             Status = "enriching"
	StatusAccepted              Status = "accepted"
	StatusAwaitingClarification Status = "awaiting_clarification"
	StatusValidated             Status = "validated"
	StatusCommitted             Status = "committed"
	StatusFailed                Status = "failed"
)

// transitions is the allowed edge set. Committed and Failed are terminal.
var transitions = map[Status][]Status{
	StatusPending:               {StatusDetecting, StatusFailed},
	StatusDetecting:             {StatusIdentifying, StatusFailed},
	StatusIdentifying:           {StatusEnriching, StatusFailed},
	StatusEnriching:             {StatusAccepted, StatusAwaitingClarification, StatusFailed},
	StatusAwaitingClarification: {StatusIdentifying, StatusFailed},
	StatusAccepted:              {StatusValidated, StatusFailed},
	StatusValidated:             {StatusCommitted, StatusFailed},
}

// CanTransition reports whether the edge from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further automatic transitions occur.
func (s Status) IsTerminal() bool {
	return s == StatusCommitted || s == StatusFailed
}

// ItemInput is everything a caller supplies for one item. Exactly one of the
// image or text paths must carry content; a selection without a source image
// is rejected at Detecting.
type ItemInput struct {
	ItemID       string
	SourceImage  []byte
	Selection    *region.SelectionRegion
	CropJPEG     []byte
	Text         string
	CategoryHint string
	Answers      map[string]string
}

// Item is the per-object progress record. Each item is owned by exactly one
// pipeline run at a time; there is no shared mutable state across items.
type Item struct {
	mu sync.Mutex

	ID        string
	Status    Status
	Input     ItemInput
	Result    identify.Result
	Decision  clarify.Decision
	Err       error
	StartedAt time.Time
	UpdatedAt time.Time
}

// SetStatus validates and applies one transition.
func (it *Item) SetStatus(next Status) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if !CanTransition(it.Status, next) {
		return fmt.Errorf("illegal transition %s -> %s for item %s", it.Status, next, it.ID)
	}
	it.Status = next
	it.UpdatedAt = time.Now()
	return nil
}

// fail marks the item terminal with a cause. Failing from a terminal state is
// a no-op.
func (it *Item) fail(err error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.Status.IsTerminal() {
		return
	}
	it.Status = StatusFailed
	it.Err = err
	it.UpdatedAt = time.Now()
}

// Snapshot returns the externally visible view of the item.
func (it *Item) Snapshot() ItemView {
	it.mu.Lock()
	defer it.mu.Unlock()
	view := ItemView{
		ItemID:     it.ID,
		Status:     it.Status,
		Candidates: it.Result.Candidates,
		Questions:  it.Decision.Questions,
		StartedAt:  it.StartedAt,
		UpdatedAt:  it.UpdatedAt,
	}
	if best, ok := it.Result.Best(); ok {
		view.Best = &best
		view.Band = identify.BandFor(best.Confidence)
	}
	if it.Err != nil {
		view.Error = it.Err.Error()
	}
	if it.Result.Degraded && it.Result.Cause != nil {
		view.Degraded = true
	}
	return view
}

// ItemView is the immutable snapshot handed to callers.
type ItemView struct {
	ItemID     string                       `json:"itemId"`
	Status     Status                       `json:"status"`
	Best       *identify.IdentifiedProduct  `json:"best,omitempty"`
	Band       identify.Band                `json:"band,omitempty"`
	Candidates []identify.IdentifiedProduct `json:"candidates"`
	Questions  []clarify.Question           `json:"questions,omitempty"`
	Degraded   bool                         `json:"degraded,omitempty"`
	Error      string                       `json:"error,omitempty"`
	StartedAt  time.Time                    `json:"startedAt"`
	UpdatedAt  time.Time                    `json:"updatedAt"`
}
