// Command prodid is the CLI for the product identification pipeline:
// identify products in images or text, extract mentions from transcripts,
// serve the HTTP API, and inspect learned-product aggregates.
package main
