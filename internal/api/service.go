package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"prodid/internal/category"
	"prodid/internal/clarify"
	"prodid/internal/config"
	"prodid/internal/identify"
	"prodid/internal/learned"
	"prodid/internal/logging"
	"prodid/internal/pipeline"
	"prodid/internal/services"
)

// Item text limits for the batch path. Transcript limits live with the
// extractor.
const (
	minItemTextLength = 3
	maxItemTextLength = 100000
)

// Service exposes the pipeline's three external operations plus the
// aggregate reads. The learned store is injected, never ambient; a nil store
// disables corrections and stats but not identification.
type Service struct {
	cfg        *config.Config
	logger     *slog.Logger
	runner     *pipeline.Runner
	identifier *identify.Identifier
	store      *learned.Store
}

func NewService(cfg *config.Config, logger *slog.Logger, runner *pipeline.Runner, identifier *identify.Identifier, store *learned.Store) *Service {
	return &Service{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "api"),
		runner:     runner,
		identifier: identifier,
		store:      store,
	}
}

// IdentifySingleItem is the quick-identify shortcut: one crop, one fast
// ranked guess, no clarification round and no commit.
func (s *Service) IdentifySingleItem(ctx context.Context, req IdentifySingleItemRequest) (*IdentifySingleItemResponse, error) {
	if len(req.ImageCrop) == 0 && len(req.SourceImage) == 0 && strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrInput, "api", "identify_single_item", "an image crop, source image, or text is required", nil)
	}
	item := s.runner.RunItem(ctx, pipeline.ItemInput{
		ItemID:       "quick_" + uuid.NewString(),
		CropJPEG:     req.ImageCrop,
		SourceImage:  req.SourceImage,
		Selection:    req.Selection,
		Text:         req.Text,
		CategoryHint: req.CategoryHint,
	})
	if item.Err != nil && (errors.Is(item.Err, services.ErrInput) || errors.Is(item.Err, services.ErrRateLimited)) {
		return nil, item.Err
	}
	view := item.Snapshot()
	resp := &IdentifySingleItemResponse{
		Guesses: view.Candidates,
		Best:    view.Best,
		Band:    view.Band,
	}
	if item.Status == pipeline.StatusFailed {
		resp.State = pipeline.QuickFailed
		resp.Error = view.Error
	} else {
		resp.State = pipeline.QuickResolved
	}
	if resp.Guesses == nil {
		resp.Guesses = []identify.IdentifiedProduct{}
	}
	return resp, nil
}

// PreviewEnrichment runs the full pipeline over a batch of described items.
// Items that clear the confidence gate (or carry answers from a previous
// round) are committed; borderline items surface questions, flattened across
// the batch into one list for a single user round.
func (s *Service) PreviewEnrichment(ctx context.Context, req PreviewEnrichmentRequest) (*PreviewEnrichmentResponse, error) {
	if len(req.Items) == 0 {
		return nil, services.Wrap(services.ErrInput, "api", "preview_enrichment", "at least one item is required", nil)
	}
	inputs := make([]pipeline.ItemInput, 0, len(req.Items))
	for idx, entry := range req.Items {
		text := strings.TrimSpace(entry.Name)
		if entry.Notes != "" {
			text = strings.TrimSpace(text + " " + entry.Notes)
		}
		if n := utf8.RuneCountInString(text); n < minItemTextLength || n > maxItemTextLength {
			return nil, services.Wrap(services.ErrInput, "api", "preview_enrichment",
				fmt.Sprintf("item %d text must be between %d and %d characters", idx, minItemTextLength, maxItemTextLength), nil)
		}
		itemID := strings.TrimSpace(entry.ItemID)
		if itemID == "" {
			itemID = "item_" + uuid.NewString()
		}
		inputs = append(inputs, pipeline.ItemInput{
			ItemID:       itemID,
			Text:         text,
			CategoryHint: entry.CategoryHint,
			Answers:      req.Answers[itemID],
		})
	}

	items := s.runner.RunBatch(ctx, inputs)
	resp := &PreviewEnrichmentResponse{
		Suggestions: make([]ItemSuggestion, 0, len(items)),
		Questions:   []clarify.Question{},
	}
	var decisions []clarify.Decision
	for _, item := range items {
		if item.Status == pipeline.StatusValidated {
			if err := s.runner.Commit(ctx, item, nil); err != nil {
				s.logger.Warn("commit failed",
					logging.String(logging.FieldItemID, item.ID),
					logging.Error(err))
			}
		}
		view := item.Snapshot()
		suggestion := ItemSuggestion{
			ItemID:     view.ItemID,
			Status:     view.Status,
			Best:       view.Best,
			Band:       view.Band,
			Candidates: view.Candidates,
			Degraded:   view.Degraded,
			Error:      view.Error,
		}
		if suggestion.Candidates == nil {
			suggestion.Candidates = []identify.IdentifiedProduct{}
		}
		resp.Suggestions = append(resp.Suggestions, suggestion)
		decisions = append(decisions, item.Decision)
	}
	resp.Questions = append(resp.Questions, clarify.FlattenQuestions(decisions)...)
	resp.NeedsClarification = len(resp.Questions) > 0
	return resp, nil
}

// ExtractProductsFromText runs the transcript variant: no region extraction,
// straight to classification, enrichment, and identification.
func (s *Service) ExtractProductsFromText(ctx context.Context, req ExtractProductsRequest) (*ExtractProductsResponse, error) {
	result, err := s.identifier.ExtractFromText(ctx, req.Text, req.DomainHint)
	if err != nil {
		return nil, err
	}
	detected := category.Detect(req.DomainHint, req.Text)
	resp := &ExtractProductsResponse{
		Products: result.Candidates,
		Degraded: result.Degraded,
	}
	if detected != category.None {
		resp.Category = string(detected)
	}
	if resp.Products == nil {
		resp.Products = []identify.IdentifiedProduct{}
	}
	return resp, nil
}

// RecordCorrection appends one user edit and folds the corrected identity
// into the learned store as ground truth.
func (s *Service) RecordCorrection(ctx context.Context, req RecordCorrectionRequest) (*learned.Correction, error) {
	if s.store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "record_correction", "learned store is not configured", nil)
	}
	if strings.TrimSpace(req.ItemID) == "" || strings.TrimSpace(req.Field) == "" {
		return nil, services.Wrap(services.ErrInput, "api", "record_correction", "itemId and field are required", nil)
	}
	switch req.Field {
	case "name", "brand", "description":
	default:
		return nil, services.Wrap(services.ErrInput, "api", "record_correction",
			fmt.Sprintf("unknown field %q: expected name, brand, or description", req.Field), nil)
	}
	correction, err := s.store.RecordCorrection(ctx, req.ItemID, req.Field, req.OriginalValue, req.CorrectedValue)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "api", "record_correction", "correction write failed", err)
	}
	event := learned.TelemetryEvent{
		Action: pipeline.ActionCorrect,
		Stage:  "correction",
		Status: "success",
	}
	if err := s.store.RecordTelemetry(ctx, event); err != nil {
		s.logger.Warn("telemetry write failed", logging.Error(err))
	}
	return correction, nil
}

// Stats returns the aggregate dashboard view.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	if s.store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "stats", "learned store is not configured", nil)
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "api", "stats", "stats query failed", err)
	}
	return &StatsResponse{Stats: stats}, nil
}
