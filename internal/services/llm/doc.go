// Package llm wraps an OpenRouter-compatible chat completions API with
// JSON-only text and vision requests, bounded retries with Retry-After
// awareness, and tolerant decoding of model output.
package llm
