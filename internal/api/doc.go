// Package api defines the external request and response shapes and the
// service that maps them onto the pipeline: quick single-item
// identification, batch enrichment previews with clarification support,
// transcript extraction, correction recording, and aggregate stats.
package api
