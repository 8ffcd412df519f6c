package identify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"prodid/internal/category"
	"prodid/internal/config"
	"prodid/internal/knowledge"
	"prodid/internal/logging"
	"prodid/internal/services"
	"prodid/internal/services/llm"
	"prodid/internal/textutil"
)

// Transcript length limits. Anything outside this window is rejected before a
// model call is made.
const (
	MinTranscriptLength = 50
	MaxTranscriptLength = 100000
)

// ChatClient is the subset of the LLM client the identifier needs.
type ChatClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteVisionJSON(ctx context.Context, systemPrompt, userPrompt string, imageJPEG []byte) (string, error)
}

// ItemRequest carries everything known about a single item before
// identification: an optional region crop, free-text notes, a user category
// hint, and any clarification answers from a previous round.
type ItemRequest struct {
	ItemID       string
	ImageJPEG    []byte
	Text         string
	CategoryHint string
	Answers      map[string]string
}

// Identifier turns item requests into ranked candidate lists via the
// configured model, enriched with brand reference context.
type Identifier struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    ChatClient
	knowledge *knowledge.Registry
}

// NewIdentifier wires an identifier from configuration. The client is
// injectable so tests can stub the model.
func NewIdentifier(cfg *config.Config, logger *slog.Logger, client ChatClient, registry *knowledge.Registry) *Identifier {
	if registry == nil {
		registry = knowledge.NewRegistry()
	}
	return &Identifier{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "identifier"),
		client:    client,
		knowledge: registry,
	}
}

// IdentifyItem produces a ranked candidate list for one item. Upstream and
// parse failures degrade to an empty-candidate result so a batch never blocks
// on one item; only input rejection and rate limiting are returned as errors.
func (i *Identifier) IdentifyItem(ctx context.Context, req ItemRequest) (Result, error) {
	if len(req.ImageJPEG) == 0 && strings.TrimSpace(req.Text) == "" {
		return Result{}, services.Wrap(services.ErrInput, "identify", "identify_item", "an image crop or text notes are required", nil)
	}
	logger := logging.WithContext(ctx, i.logger)

	cat := category.Detect(req.CategoryHint, req.Text)
	knowledgeContext := i.knowledge.Context([]category.Category{cat}, i.verbosity())
	system := fmt.Sprintf(identifySystemPrompt, i.maxCandidates())
	user := buildIdentifyUser(req, knowledgeContext)

	var (
		content string
		source  string
		err     error
	)
	if len(req.ImageJPEG) > 0 {
		source = SourceVision
		content, err = i.client.CompleteVisionJSON(ctx, system, user, req.ImageJPEG)
	} else {
		source = SourceText
		content, err = i.client.CompleteJSON(ctx, system, user)
	}
	if err != nil {
		if errors.Is(err, llm.ErrRateLimited) {
			return Result{}, services.Wrap(services.ErrRateLimited, "identify", "identify_item", "model throttled the request", err)
		}
		logger.Warn("model call failed, degrading to empty result",
			logging.String(logging.FieldItemID, req.ItemID),
			logging.Error(err))
		return Result{Degraded: true, Cause: services.Wrap(services.ErrUpstream, "identify", "identify_item", "model call failed", err)}, nil
	}

	var wire struct {
		Candidates []wireCandidate `json:"candidates"`
	}
	if decodeErr := llm.DecodeLLMJSON(content, &wire); decodeErr != nil {
		logger.Warn("model response unparseable, degrading to empty result",
			logging.String(logging.FieldItemID, req.ItemID),
			logging.Error(decodeErr))
		return Result{Degraded: true, Cause: services.Wrap(services.ErrParse, "identify", "identify_item", "model response did not match the expected shape", decodeErr)}, nil
	}

	candidates := i.normalize(wire.Candidates, source, cat)
	if best, ok := first(candidates); ok {
		logger.Info("item identified",
			logging.String(logging.FieldItemID, req.ItemID),
			logging.String("best", best.DisplayName()),
			logging.Float64(logging.FieldConfidence, best.Confidence),
			logging.String("band", string(BandFor(best.Confidence))),
			logging.Int("candidates", len(candidates)))
	} else {
		logger.Info("no candidates supported by input",
			logging.String(logging.FieldItemID, req.ItemID))
	}
	return Result{Candidates: candidates}, nil
}

// ExtractFromText pulls product mentions out of a transcript. The hint steers
// classification ahead of keyword scoring. Length limits are enforced before
// any model call.
func (i *Identifier) ExtractFromText(ctx context.Context, transcript, categoryHint string) (Result, error) {
	transcript = strings.TrimSpace(transcript)
	switch n := utf8.RuneCountInString(transcript); {
	case n < MinTranscriptLength:
		return Result{}, services.Wrap(services.ErrInput, "extract", "extract_from_text",
			fmt.Sprintf("transcript too short: %d characters, need at least %d", n, MinTranscriptLength), nil)
	case n > MaxTranscriptLength:
		return Result{}, services.Wrap(services.ErrInput, "extract", "extract_from_text",
			fmt.Sprintf("transcript too long: %d characters, limit is %d", n, MaxTranscriptLength), nil)
	}
	logger := logging.WithContext(ctx, i.logger)

	cat := category.Detect(categoryHint, transcript)
	knowledgeContext := i.knowledge.Context([]category.Category{cat}, i.verbosity())
	user := buildExtractUser(transcript, cat, knowledgeContext)

	content, err := i.client.CompleteJSON(ctx, extractSystemPrompt, user)
	if err != nil {
		if errors.Is(err, llm.ErrRateLimited) {
			return Result{}, services.Wrap(services.ErrRateLimited, "extract", "extract_from_text", "model throttled the request", err)
		}
		logger.Warn("model call failed, degrading to empty result", logging.Error(err))
		return Result{Degraded: true, Cause: services.Wrap(services.ErrUpstream, "extract", "extract_from_text", "model call failed", err)}, nil
	}

	var wire struct {
		Products []wireCandidate `json:"products"`
	}
	if decodeErr := llm.DecodeLLMJSON(content, &wire); decodeErr != nil {
		logger.Warn("model response unparseable, degrading to empty result", logging.Error(decodeErr))
		return Result{Degraded: true, Cause: services.Wrap(services.ErrParse, "extract", "extract_from_text", "model response did not match the expected shape", decodeErr)}, nil
	}

	candidates := i.normalize(wire.Products, SourceText, cat)
	logger.Info("transcript extraction complete",
		logging.String(logging.FieldCategory, string(cat)),
		logging.Int("products", len(candidates)))
	return Result{Candidates: candidates}, nil
}

// wireCandidate is the loose shape the model returns before validation.
type wireCandidate struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// normalize validates wire candidates into typed products: nameless entries
// are dropped, scores are clamped into [0, 1], the list is sorted by
// confidence, and the configured cap is applied.
func (i *Identifier) normalize(wire []wireCandidate, source string, fallback category.Category) []IdentifiedProduct {
	out := make([]IdentifiedProduct, 0, len(wire))
	for _, w := range wire {
		name := textutil.CollapseWhitespace(w.Name)
		if name == "" {
			continue
		}
		cat := category.Normalize(w.Category)
		if cat == category.None {
			cat = fallback
		}
		confidence := w.Confidence
		// Some models report percentages despite the instructions.
		if confidence > 1 {
			confidence /= 100
		}
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		out = append(out, IdentifiedProduct{
			Name:        name,
			Brand:       textutil.CollapseWhitespace(w.Brand),
			Category:    cat,
			Description: strings.TrimSpace(w.Description),
			Confidence:  confidence,
			Reasoning:   strings.TrimSpace(w.Reasoning),
			Source:      source,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Confidence > out[b].Confidence
	})
	if max := i.maxCandidates(); len(out) > max {
		out = out[:max]
	}
	return out
}

func (i *Identifier) maxCandidates() int {
	if i.cfg == nil || i.cfg.Identify.MaxCandidates <= 0 {
		return 5
	}
	return i.cfg.Identify.MaxCandidates
}

func (i *Identifier) verbosity() knowledge.Verbosity {
	if i.cfg == nil {
		return knowledge.VerbosityStandard
	}
	return knowledge.ParseVerbosity(i.cfg.Knowledge.Verbosity)
}

func first(products []IdentifiedProduct) (IdentifiedProduct, bool) {
	if len(products) == 0 {
		return IdentifiedProduct{}, false
	}
	return products[0], true
}
