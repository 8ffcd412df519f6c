package identify_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"prodid/internal/category"
	"prodid/internal/identify"
	"prodid/internal/knowledge"
	"prodid/internal/logging"
	"prodid/internal/services"
	"prodid/internal/services/llm"
	"prodid/internal/testsupport"
)

func newIdentifier(t *testing.T, chat identify.ChatClient) *identify.Identifier {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return identify.NewIdentifier(cfg, logging.NewNop(), chat, knowledge.NewRegistry())
}

func TestIdentifyItemRequiresInput(t *testing.T) {
	identifier := newIdentifier(t, &testsupport.StubChat{})
	_, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{})
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestIdentifyItemTaylorMadeScenario(t *testing.T) {
	chat := &testsupport.StubChat{
		Response: `{"candidates": [{"name": "Stealth 2 Driver", "brand": "TaylorMade", "category": "golf", "confidence": 0.95, "reasoning": "brand and model stated outright"}]}`,
	}
	identifier := newIdentifier(t, chat)

	result, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{
		ItemID:       "item-1",
		Text:         "TaylorMade Stealth 2 driver, 9 degrees, stiff flex",
		CategoryHint: "golf",
	})
	if err != nil {
		t.Fatalf("IdentifyItem failed: %v", err)
	}
	best, ok := result.Best()
	if !ok {
		t.Fatal("expected a candidate")
	}
	if best.Brand != "TaylorMade" || !strings.Contains(best.Name, "Stealth 2") {
		t.Fatalf("unexpected best candidate: %+v", best)
	}
	if best.Confidence < 0.90 || best.Confidence > 1.0 {
		t.Fatalf("confidence %v outside the very-high band", best.Confidence)
	}
	if best.Category != category.Golf {
		t.Fatalf("unexpected category %q", best.Category)
	}
	if best.Source != identify.SourceText {
		t.Fatalf("unexpected source %q", best.Source)
	}
	if chat.TextCalls != 1 || chat.VisionCalls != 0 {
		t.Fatalf("unexpected call mix: text=%d vision=%d", chat.TextCalls, chat.VisionCalls)
	}
	// The enriched prompt should carry the golf reference notes.
	if !strings.Contains(chat.LastUser, "GOLF BRANDS") {
		t.Fatal("user prompt missing brand knowledge context")
	}
}

func TestIdentifyItemUsesVisionForCrops(t *testing.T) {
	chat := &testsupport.StubChat{Response: `{"candidates": []}`}
	identifier := newIdentifier(t, chat)

	result, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{
		ItemID:    "item-2",
		ImageJPEG: []byte{0xFF, 0xD8, 0xFF},
	})
	if err != nil {
		t.Fatalf("IdentifyItem failed: %v", err)
	}
	if chat.VisionCalls != 1 || chat.TextCalls != 0 {
		t.Fatalf("unexpected call mix: text=%d vision=%d", chat.TextCalls, chat.VisionCalls)
	}
	if len(result.Candidates) != 0 || result.Degraded {
		t.Fatalf("expected a clean empty result, got %+v", result)
	}
}

func TestIdentifyItemEmptyListIsNotDegraded(t *testing.T) {
	// A plain background with no discernible object: the model returns no
	// candidates and the result must stay empty, not fabricated.
	chat := &testsupport.StubChat{Response: `{"candidates": []}`}
	identifier := newIdentifier(t, chat)

	result, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{
		ItemID:    "blank",
		ImageJPEG: []byte{0xFF, 0xD8, 0xFF},
	})
	if err != nil {
		t.Fatalf("IdentifyItem failed: %v", err)
	}
	if len(result.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(result.Candidates))
	}
	if result.Degraded {
		t.Fatal("clean empty result must not be marked degraded")
	}
}

func TestIdentifyItemMalformedResponseDegrades(t *testing.T) {
	chat := &testsupport.StubChat{Response: "this is not json at all {{{"}
	identifier := newIdentifier(t, chat)

	result, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{
		ItemID: "item-3",
		Text:   "some product description",
	})
	if err != nil {
		t.Fatalf("expected degraded result, got error %v", err)
	}
	if !result.Degraded {
		t.Fatal("expected degraded result for malformed response")
	}
	if len(result.Candidates) != 0 {
		t.Fatal("degraded result must carry no candidates")
	}
	if !errors.Is(result.Cause, services.ErrParse) {
		t.Fatalf("expected parse cause, got %v", result.Cause)
	}
}

func TestIdentifyItemUpstreamFailureDegrades(t *testing.T) {
	chat := &testsupport.StubChat{Err: errors.New("connection refused")}
	identifier := newIdentifier(t, chat)

	result, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{
		ItemID: "item-4",
		Text:   "some product description",
	})
	if err != nil {
		t.Fatalf("expected degraded result, got error %v", err)
	}
	if !result.Degraded || !errors.Is(result.Cause, services.ErrUpstream) {
		t.Fatalf("expected upstream degradation, got %+v cause %v", result, result.Cause)
	}
}

func TestIdentifyItemSurfacesRateLimiting(t *testing.T) {
	chat := &testsupport.StubChat{Err: llm.ErrRateLimited}
	identifier := newIdentifier(t, chat)

	_, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{
		ItemID: "item-5",
		Text:   "some product description",
	})
	if !errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("expected rate-limited error, got %v", err)
	}
}

func TestIdentifyItemNormalizesCandidates(t *testing.T) {
	chat := &testsupport.StubChat{
		Response: `{"candidates": [
			{"name": "", "brand": "Ghost", "confidence": 0.9},
			{"name": "Low Option", "confidence": 0.4},
			{"name": "Percent Scored", "confidence": 88},
			{"name": "Clamped", "confidence": 150},
			{"name": "Negative", "confidence": -0.5},
			{"name": "Mid Option", "confidence": 0.6},
			{"name": "Extra", "confidence": 0.5}
		]}`,
	}
	identifier := newIdentifier(t, chat)

	result, err := identifier.IdentifyItem(context.Background(), identify.ItemRequest{
		ItemID: "item-6",
		Text:   "something",
	})
	if err != nil {
		t.Fatalf("IdentifyItem failed: %v", err)
	}
	if len(result.Candidates) != 5 {
		t.Fatalf("expected cap at 5 candidates, got %d", len(result.Candidates))
	}
	for i := 1; i < len(result.Candidates); i++ {
		if result.Candidates[i].Confidence > result.Candidates[i-1].Confidence {
			t.Fatalf("candidates not sorted by confidence: %+v", result.Candidates)
		}
	}
	for _, c := range result.Candidates {
		if c.Name == "" {
			t.Fatal("nameless candidate survived normalization")
		}
		if c.Confidence < 0 || c.Confidence > 1 {
			t.Fatalf("confidence %v outside [0, 1]", c.Confidence)
		}
	}
	if best, _ := result.Best(); best.Name != "Clamped" || best.Confidence != 1 {
		t.Fatalf("unexpected best after clamping: %+v", best)
	}
}

func TestExtractFromTextLengthValidation(t *testing.T) {
	identifier := newIdentifier(t, &testsupport.StubChat{})

	if _, err := identifier.ExtractFromText(context.Background(), "too short", ""); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for short transcript, got %v", err)
	}
	long := strings.Repeat("a", identify.MaxTranscriptLength+1)
	if _, err := identifier.ExtractFromText(context.Background(), long, ""); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for long transcript, got %v", err)
	}
}

func TestExtractFromTextReturnsProducts(t *testing.T) {
	chat := &testsupport.StubChat{
		Response: `{"products": [{"name": "Stealth 2 Driver", "brand": "TaylorMade", "category": "golf", "confidence": 0.92}]}`,
	}
	identifier := newIdentifier(t, chat)

	transcript := "Today we are reviewing the TaylorMade Stealth 2 driver out on the golf course."
	result, err := identifier.ExtractFromText(context.Background(), transcript, "")
	if err != nil {
		t.Fatalf("ExtractFromText failed: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("expected one product, got %d", len(result.Candidates))
	}
	if !strings.Contains(chat.LastUser, "Transcript:") {
		t.Fatal("prompt missing transcript section")
	}
}

func TestExtractFromTextHintSteersEnrichment(t *testing.T) {
	chat := &testsupport.StubChat{Response: `{"products": []}`}
	identifier := newIdentifier(t, chat)

	// No category keywords in the transcript; only the hint can select the
	// knowledge context.
	transcript := "He pulls out the new one and walks us through the weighting and the feel at contact."
	if _, err := identifier.ExtractFromText(context.Background(), transcript, "golf"); err != nil {
		t.Fatalf("ExtractFromText failed: %v", err)
	}
	if !strings.Contains(chat.LastUser, "GOLF BRANDS") {
		t.Fatal("hint did not inject golf knowledge context")
	}

	chat.LastUser = ""
	if _, err := identifier.ExtractFromText(context.Background(), transcript, ""); err != nil {
		t.Fatalf("ExtractFromText failed: %v", err)
	}
	if strings.Contains(chat.LastUser, "GOLF BRANDS") {
		t.Fatal("knowledge context injected without a hint or keywords")
	}
}
