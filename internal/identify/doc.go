// Package identify turns a prepared item (a region crop, text notes, or a
// transcript) into a ranked candidate list via the configured model.
//
// The identifier degrades instead of failing: an unreachable model or an
// unparseable response yields an empty-candidate result with the cause
// attached, never a batch-stopping error. Confidence scores are clamped into
// [0, 1] and mapped onto fixed bands that the clarification gate and the
// learned-product store both depend on.
package identify
