// Package category implements the cheap keyword-scoring classifier that picks
// which brand knowledge document to load. Classification is deterministic:
// the keyword table is scanned in a fixed order and identical input always
// yields the same category.
package category
