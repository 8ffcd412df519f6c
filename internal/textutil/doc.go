// Package textutil provides the small text normalization helpers shared by the
// category classifier, learned-store key derivation, and output formatting.
package textutil
