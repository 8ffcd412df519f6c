// Package learned persists the pipeline's feedback loop in SQLite: a
// de-duplicated product store keyed by normalized (brand, name, category),
// an append-only correction log, and a telemetry table of decision-point
// events.
//
// Writes here are side effects of a commit, never blocking dependencies of
// one. Callers issue them fire-and-forget and log failures; the store growing
// stale degrades future suggestions, not the current batch.
package learned
