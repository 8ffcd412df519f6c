// Package logging builds the slog loggers used across the pipeline. Console
// output renders one-line "ts LEVEL component: msg key=value" records; JSON
// output is available for machines. Helpers standardize attribute keys so logs
// from different stages remain greppable.
package logging
