// Package knowledge holds the embedded brand reference documents and
// renders them as prompt context for identification requests.
//
// Each category ships one JSON document describing the brands a model is
// likely to encounter: signature colors, design cues, identification tips,
// and recent colorways. Documents are parsed lazily and cached; a missing
// or malformed document degrades to no enrichment rather than failing the
// request.
package knowledge
