package pipeline

import (
	"context"

	"prodid/internal/identify"
)

// QuickState is the simplified lifecycle of the single-object shortcut.
type QuickState string

const (
	QuickLoading  QuickState = "loading"
	QuickResolved QuickState = "resolved"
	QuickFailed   QuickState = "failed"
)

// QuickResult is the single request/response shape of the shortcut.
type QuickResult struct {
	State      QuickState                   `json:"state"`
	Best       *identify.IdentifiedProduct  `json:"best,omitempty"`
	Band       identify.Band                `json:"band,omitempty"`
	Candidates []identify.IdentifiedProduct `json:"candidates"`
	Error      string                       `json:"error,omitempty"`
}

// QuickIdentify collapses the full pipeline into one fast guess with no
// clarification round and no commit: the item lands in Resolved or Failed.
// Each invocation is single-flight from the pipeline's side; callers that
// allow re-triggering while a call is in flight must gate the trigger
// themselves.
func (r *Runner) QuickIdentify(ctx context.Context, input ItemInput) QuickResult {
	item := r.RunItem(ctx, input)
	view := item.Snapshot()
	if item.Status == StatusFailed {
		return QuickResult{State: QuickFailed, Error: view.Error}
	}
	return QuickResult{
		State:      QuickResolved,
		Best:       view.Best,
		Band:       view.Band,
		Candidates: view.Candidates,
	}
}
