// Package services defines the shared error taxonomy and context plumbing used
// across pipeline stages. Sentinel errors classify failures for HTTP status
// mapping and telemetry; context helpers carry item and stage identity into
// structured logs.
package services
