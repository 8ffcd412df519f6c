package api

import (
	"prodid/internal/clarify"
	"prodid/internal/identify"
	"prodid/internal/learned"
	"prodid/internal/pipeline"
	"prodid/internal/region"
)

// IdentifySingleItemRequest is the quick-identify shortcut input: one crop
// (or raw image plus a selection to crop server-side) and an optional
// category hint.
type IdentifySingleItemRequest struct {
	ImageCrop    []byte                  `json:"imageCrop,omitempty"`
	SourceImage  []byte                  `json:"sourceImage,omitempty"`
	Selection    *region.SelectionRegion `json:"selection,omitempty"`
	Text         string                  `json:"text,omitempty"`
	CategoryHint string                  `json:"categoryHint,omitempty"`
}

// IdentifySingleItemResponse carries the ranked guesses for the single item.
type IdentifySingleItemResponse struct {
	State   pipeline.QuickState          `json:"state"`
	Guesses []identify.IdentifiedProduct `json:"guesses"`
	Best    *identify.IdentifiedProduct  `json:"best,omitempty"`
	Band    identify.Band                `json:"band,omitempty"`
	Error   string                       `json:"error,omitempty"`
}

// EnrichmentItem is one batch entry: free text describing the item plus an
// optional category hint.
type EnrichmentItem struct {
	ItemID       string `json:"itemId"`
	Name         string `json:"name"`
	Notes        string `json:"notes,omitempty"`
	CategoryHint string `json:"categoryHint,omitempty"`
}

// PreviewEnrichmentRequest runs the full pipeline over a batch. Answers are
// keyed by item ID then question ID; a resubmission with answers populated
// resolves those items without further questions.
type PreviewEnrichmentRequest struct {
	Items   []EnrichmentItem             `json:"items"`
	Answers map[string]map[string]string `json:"clarificationAnswers,omitempty"`
}

// ItemSuggestion is the per-item outcome in a preview response.
type ItemSuggestion struct {
	ItemID     string                       `json:"itemId"`
	Status     pipeline.Status              `json:"status"`
	Best       *identify.IdentifiedProduct  `json:"best,omitempty"`
	Band       identify.Band                `json:"band,omitempty"`
	Candidates []identify.IdentifiedProduct `json:"candidates"`
	Degraded   bool                         `json:"degraded,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

// PreviewEnrichmentResponse flattens the open questions across the batch into
// one list for a single user round.
type PreviewEnrichmentResponse struct {
	Suggestions        []ItemSuggestion   `json:"suggestions"`
	NeedsClarification bool               `json:"needsClarification"`
	Questions          []clarify.Question `json:"questions"`
}

// ExtractProductsRequest is the transcript variant.
type ExtractProductsRequest struct {
	Text       string `json:"text"`
	DomainHint string `json:"domainHint,omitempty"`
}

// ExtractProductsResponse lists the products mentioned in the text.
type ExtractProductsResponse struct {
	Products []identify.IdentifiedProduct `json:"products"`
	Category string                       `json:"category,omitempty"`
	Degraded bool                         `json:"degraded,omitempty"`
}

// RecordCorrectionRequest appends one user edit to a committed item.
type RecordCorrectionRequest struct {
	ItemID         string `json:"itemId"`
	Field          string `json:"field"`
	OriginalValue  string `json:"originalValue"`
	CorrectedValue string `json:"correctedValue"`
}

// StatsResponse is the aggregate dashboard view.
type StatsResponse struct {
	Stats *learned.Stats `json:"stats"`
}
