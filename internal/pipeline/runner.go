package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"prodid/internal/clarify"
	"prodid/internal/config"
	"prodid/internal/identify"
	"prodid/internal/learned"
	"prodid/internal/logging"
	"prodid/internal/region"
	"prodid/internal/services"
)

const sideEffectTimeout = 10 * time.Second

// Telemetry actions recorded at decision points.
const (
	ActionAccept  = "accept"
	ActionCorrect = "correct"
	ActionAbandon = "abandon"
)

// Runner sequences the per-item stages and owns batch fan-out. The learned
// store is optional; a nil store disables the feedback loop but never the
// pipeline.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	identifier *identify.Identifier
	gate       *clarify.Gate
	store      *learned.Store

	sideEffects sync.WaitGroup
}

func NewRunner(cfg *config.Config, logger *slog.Logger, identifier *identify.Identifier, gate *clarify.Gate, store *learned.Store) *Runner {
	if gate == nil {
		gate = clarify.NewGate(cfg)
	}
	return &Runner{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		identifier: identifier,
		gate:       gate,
		store:      store,
	}
}

// RunItem drives one item from Pending to Validated or
// AwaitingClarification. Input rejection and rate limiting fail the item;
// upstream degradation does not.
func (r *Runner) RunItem(ctx context.Context, input ItemInput) *Item {
	if strings.TrimSpace(input.ItemID) == "" {
		input.ItemID = "item_" + uuid.NewString()
	}
	item := &Item{
		ID:        input.ItemID,
		Status:    StatusPending,
		Input:     input,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	ctx = services.WithItemID(ctx, item.ID)
	logger := logging.WithContext(ctx, r.logger)

	if err := r.detect(ctx, item); err != nil {
		r.failItem(ctx, item, "detect", err)
		return item
	}
	if err := r.identify(ctx, item); err != nil {
		r.failItem(ctx, item, "identify", err)
		return item
	}
	if err := r.enrich(ctx, item); err != nil {
		r.failItem(ctx, item, "enrich", err)
		return item
	}
	if err := r.gateItem(ctx, item); err != nil {
		r.failItem(ctx, item, "gate", err)
		return item
	}

	logger.Info("item run complete",
		logging.String(logging.FieldItemID, item.ID),
		logging.String("status", string(item.Status)))
	return item
}

// RunBatch runs every input's pipeline concurrently and gathers all results
// in input order. One item failing never cancels or delays its siblings.
func (r *Runner) RunBatch(ctx context.Context, inputs []ItemInput) []*Item {
	items := make([]*Item, len(inputs))
	var wg sync.WaitGroup
	for idx, input := range inputs {
		wg.Add(1)
		go func(idx int, input ItemInput) {
			defer wg.Done()
			items[idx] = r.RunItem(ctx, input)
		}(idx, input)
	}
	wg.Wait()
	return items
}

// Resume feeds clarification answers back into an awaiting item. The second
// identification pass carries the answers, so the gate's answered-item bypass
// guarantees this terminates in Validated.
func (r *Runner) Resume(ctx context.Context, item *Item, answers map[string]string) error {
	if item.Status != StatusAwaitingClarification {
		return services.Wrap(services.ErrInput, "pipeline", "resume", "item is not awaiting clarification", nil)
	}
	if len(answers) == 0 {
		return services.Wrap(services.ErrInput, "pipeline", "resume", "answers required", nil)
	}
	if item.Input.Answers == nil {
		item.Input.Answers = make(map[string]string, len(answers))
	}
	for id, answer := range answers {
		item.Input.Answers[id] = answer
	}
	ctx = services.WithItemID(ctx, item.ID)
	if err := item.SetStatus(StatusIdentifying); err != nil {
		return err
	}
	if err := r.identifyCurrent(ctx, item); err != nil {
		r.failItem(ctx, item, "identify", err)
		return err
	}
	if err := r.enrich(ctx, item); err != nil {
		r.failItem(ctx, item, "enrich", err)
		return err
	}
	if err := r.gateItem(ctx, item); err != nil {
		r.failItem(ctx, item, "gate", err)
		return err
	}
	return nil
}

// Commit finalizes a validated item. Corrections are the user's explicit
// field edits relative to the accepted candidate; they are recorded alongside
// the learned-product upsert and telemetry, all fire-and-forget.
func (r *Runner) Commit(ctx context.Context, item *Item, corrections map[string]string) error {
	if item.Status != StatusValidated {
		return services.Wrap(services.ErrInput, "pipeline", "commit", "item is not validated", nil)
	}
	if err := item.SetStatus(StatusCommitted); err != nil {
		return err
	}

	best, _ := item.Result.Best()
	final := applyCorrections(best, corrections)
	action := ActionAccept
	if len(corrections) > 0 {
		action = ActionCorrect
	}
	elapsed := time.Since(item.StartedAt)

	r.spawnSideEffect(ctx, func(ctx context.Context, logger *slog.Logger) {
		r.recordCommit(ctx, logger, item, best, final, corrections, action, elapsed)
	})
	return nil
}

// Wait blocks until all fire-and-forget writes issued so far have finished.
func (r *Runner) Wait() {
	r.sideEffects.Wait()
}

func (r *Runner) detect(ctx context.Context, item *Item) error {
	if err := item.SetStatus(StatusDetecting); err != nil {
		return err
	}
	input := &item.Input
	if input.Selection != nil {
		if len(input.SourceImage) == 0 {
			return services.Wrap(services.ErrInput, "detect", "crop", "selection supplied without a source image", nil)
		}
		crop, err := region.Crop(input.SourceImage, *input.Selection)
		if err != nil {
			return err
		}
		input.CropJPEG = crop
	} else if len(input.SourceImage) > 0 && len(input.CropJPEG) == 0 {
		input.CropJPEG = input.SourceImage
	}
	return nil
}

func (r *Runner) identify(ctx context.Context, item *Item) error {
	if err := item.SetStatus(StatusIdentifying); err != nil {
		return err
	}
	return r.identifyCurrent(ctx, item)
}

func (r *Runner) identifyCurrent(ctx context.Context, item *Item) error {
	input := item.Input
	result, err := r.identifier.IdentifyItem(ctx, identify.ItemRequest{
		ItemID:       item.ID,
		ImageJPEG:    input.CropJPEG,
		Text:         input.Text,
		CategoryHint: input.CategoryHint,
		Answers:      input.Answers,
	})
	if err != nil {
		return err
	}
	item.Result = result
	return nil
}

// enrich folds the learned store back into the candidate list: a product the
// store has seen often gets a modest confidence boost and its sighting count
// attached. Confidence is never lowered here.
func (r *Runner) enrich(ctx context.Context, item *Item) error {
	if err := item.SetStatus(StatusEnriching); err != nil {
		return err
	}
	if r.store == nil {
		return nil
	}
	logger := logging.WithContext(ctx, r.logger)
	for idx := range item.Result.Candidates {
		candidate := &item.Result.Candidates[idx]
		record, found, err := r.store.Lookup(ctx, candidate.Brand, candidate.Name, string(candidate.Category))
		if err != nil {
			logger.Warn("learned lookup failed", logging.Error(err))
			return nil
		}
		if !found {
			continue
		}
		if candidate.Metadata == nil {
			candidate.Metadata = make(map[string]string, 1)
		}
		candidate.Metadata["timesSeen"] = strconv.FormatInt(record.OccurrenceCount, 10)
		if record.OccurrenceCount >= 3 && candidate.Confidence < 0.95 {
			candidate.Confidence = min(candidate.Confidence+0.05, 0.95)
		}
	}
	return nil
}

func (r *Runner) gateItem(ctx context.Context, item *Item) error {
	decision := r.gate.Decide(item.ID, item.Result, item.Input.Answers)
	item.Decision = decision
	if decision.State == clarify.StateAwaiting {
		return item.SetStatus(StatusAwaitingClarification)
	}
	if err := item.SetStatus(StatusAccepted); err != nil {
		return err
	}
	return item.SetStatus(StatusValidated)
}

func (r *Runner) failItem(ctx context.Context, item *Item, stage string, err error) {
	item.fail(err)
	logger := logging.WithContext(ctx, r.logger)
	logger.Warn("item failed",
		logging.String(logging.FieldItemID, item.ID),
		logging.String(logging.FieldStage, stage),
		logging.Error(err))

	best, _ := item.Result.Best()
	status := services.TelemetryStatus(err)
	elapsed := time.Since(item.StartedAt)
	r.spawnSideEffect(ctx, func(ctx context.Context, logger *slog.Logger) {
		if r.store == nil {
			return
		}
		event := learned.TelemetryEvent{
			Action:           ActionAbandon,
			Stage:            stage,
			Category:         string(best.Category),
			Confidence:       best.Confidence,
			TimeToDecisionMS: elapsed.Milliseconds(),
			Status:           status,
		}
		if err := r.store.RecordTelemetry(ctx, event); err != nil {
			logger.Warn("telemetry write failed", logging.Error(err))
		}
	})
}

func (r *Runner) recordCommit(ctx context.Context, logger *slog.Logger, item *Item, accepted, final identify.IdentifiedProduct, corrections map[string]string, action string, elapsed time.Duration) {
	if r.store == nil {
		return
	}
	for field, corrected := range corrections {
		original := fieldValue(accepted, field)
		if _, err := r.store.RecordCorrection(ctx, item.ID, field, original, corrected); err != nil {
			logger.Warn("correction write failed",
				logging.String(logging.FieldItemID, item.ID),
				logging.Error(err))
		}
	}

	sighting := learned.Sighting{
		Brand:      final.Brand,
		Name:       final.Name,
		Category:   string(final.Category),
		Confidence: final.Confidence,
		Corrected:  len(corrections) > 0,
	}
	if sighting.ShouldLearn(r.learnMinConfidence()) {
		if err := r.store.Observe(ctx, sighting); err != nil {
			logger.Warn("learned upsert failed",
				logging.String(logging.FieldItemID, item.ID),
				logging.Error(err))
		}
	}

	event := learned.TelemetryEvent{
		Action:           action,
		Stage:            "commit",
		Category:         string(final.Category),
		Confidence:       accepted.Confidence,
		TimeToDecisionMS: elapsed.Milliseconds(),
		Status:           "success",
	}
	if err := r.store.RecordTelemetry(ctx, event); err != nil {
		logger.Warn("telemetry write failed",
			logging.String(logging.FieldItemID, item.ID),
			logging.Error(err))
	}
}

func (r *Runner) learnMinConfidence() float64 {
	if r.cfg == nil {
		return 0
	}
	return r.cfg.Identify.LearnMinConfidence
}

// spawnSideEffect runs fn detached from the caller's cancellation. Failures
// are logged and never propagate back to the committing item.
func (r *Runner) spawnSideEffect(ctx context.Context, fn func(context.Context, *slog.Logger)) {
	logger := logging.WithContext(ctx, r.logger)
	detached := context.WithoutCancel(ctx)
	r.sideEffects.Add(1)
	go func() {
		defer r.sideEffects.Done()
		ctx, cancel := context.WithTimeout(detached, sideEffectTimeout)
		defer cancel()
		fn(ctx, logger)
	}()
}

func applyCorrections(product identify.IdentifiedProduct, corrections map[string]string) identify.IdentifiedProduct {
	for field, value := range corrections {
		switch field {
		case "name":
			product.Name = value
		case "brand":
			product.Brand = value
		case "description":
			product.Description = value
		}
	}
	return product
}

func fieldValue(product identify.IdentifiedProduct, field string) string {
	switch field {
	case "name":
		return product.Name
	case "brand":
		return product.Brand
	case "description":
		return product.Description
	default:
		return ""
	}
}

