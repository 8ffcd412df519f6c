// Package pipeline owns per-item sequencing: Pending through Detecting,
// Identifying, Enriching, the confidence gate, and finally Validated and
// Committed. Items in a batch run concurrently and independently; one item's
// failure never cancels a sibling. Learned-store and telemetry writes happen
// after the commit decision, fire-and-forget.
package pipeline
