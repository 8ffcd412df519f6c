package identify

import (
	"fmt"
	"sort"
	"strings"

	"prodid/internal/category"
)

// identifySystemPrompt steers a single-item identification call. The band
// descriptions here must agree with BandFor; downstream gating depends on the
// model scoring against the same scale.
const identifySystemPrompt = `You identify consumer products from images and short descriptions.

Return ONLY a JSON object of this exact shape:
{"candidates": [{"name": "...", "brand": "...", "category": "...", "description": "...", "confidence": 0.0, "reasoning": "..."}]}

Rules:
- Rank candidates from most to least likely. Return at most %d.
- "confidence" is a number from 0.0 to 1.0. Score conservatively:
  0.90-1.00 you can name the exact product and model
  0.70-0.89 product identified, minor ambiguity (colorway, year, trim)
  0.50-0.69 product type is clear but the specific model is uncertain
  0.30-0.49 educated guess from partial visual or textual cues
  below 0.30 insufficient information
- Never invent a product. If nothing in the input clearly supports a
  candidate, return {"candidates": []}. An empty list is always better
  than a fabricated guess.
- Use brand reference notes when provided, but only as supporting
  evidence for what you actually observe.`

// extractSystemPrompt steers transcript extraction. Mentions that are not
// concrete products (generic nouns, categories, verbs) must be dropped.
const extractSystemPrompt = `You extract product mentions from spoken-word transcripts.

Return ONLY a JSON object of this exact shape:
{"products": [{"name": "...", "brand": "...", "category": "...", "description": "...", "confidence": 0.0, "reasoning": "..."}]}

Rules:
- Only include concrete, purchasable products. Skip generic nouns
  ("my driver", "a jacket") unless the transcript names the brand or model.
- Transcripts contain speech-to-text errors: normalize obvious
  mis-hearings of well-known brand or model names, and say so in
  "reasoning" when you do.
- "confidence" is a number from 0.0 to 1.0. Score conservatively:
  0.90-1.00 brand and exact model both stated
  0.70-0.89 brand stated, model inferable
  0.50-0.69 product clearly referenced but under-specified
  0.30-0.49 plausible mention, weak evidence
  below 0.30 do not include the product at all
- Return {"products": []} when the transcript mentions no products.`

// buildIdentifyUser assembles the user message for one item: optional notes,
// category hint, clarification answers, then brand reference context.
func buildIdentifyUser(req ItemRequest, knowledgeContext string) string {
	var b strings.Builder
	if req.ImageJPEG != nil {
		b.WriteString("Identify the product shown in the attached image crop.\n")
	} else {
		b.WriteString("Identify the product described below.\n")
	}
	if text := strings.TrimSpace(req.Text); text != "" {
		fmt.Fprintf(&b, "\nUser notes: %s\n", text)
	}
	if hint := strings.TrimSpace(req.CategoryHint); hint != "" {
		fmt.Fprintf(&b, "\nCategory hint from the user: %s\n", hint)
	}
	if len(req.Answers) > 0 {
		b.WriteString("\nThe user already answered these clarification questions. Treat the answers as ground truth and score accordingly:\n")
		for _, id := range sortedKeys(req.Answers) {
			fmt.Fprintf(&b, "- %s: %s\n", id, req.Answers[id])
		}
	}
	if knowledgeContext != "" {
		b.WriteString("\n")
		b.WriteString(knowledgeContext)
	}
	return b.String()
}

func buildExtractUser(transcript string, cat category.Category, knowledgeContext string) string {
	var b strings.Builder
	if cat != category.None {
		fmt.Fprintf(&b, "Content category: %s\n\n", cat)
	}
	if knowledgeContext != "" {
		b.WriteString(knowledgeContext)
		b.WriteString("\n")
	}
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
