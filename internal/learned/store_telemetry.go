package learned

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RecordTelemetry appends one decision-point event.
func (s *Store) RecordTelemetry(ctx context.Context, event TelemetryEvent) error {
	if strings.TrimSpace(event.Action) == "" {
		return fmt.Errorf("record telemetry: action required")
	}
	status := strings.TrimSpace(event.Status)
	if status == "" {
		status = "success"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO telemetry (action, stage, category, confidence, time_to_decision_ms, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(event.Action),
		strings.TrimSpace(event.Stage),
		strings.TrimSpace(event.Category),
		event.Confidence,
		event.TimeToDecisionMS,
		status,
		timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("record telemetry: %w", err)
	}
	return nil
}

// Stats aggregates the store for reporting. Telemetry is never read back
// into pipeline decisions.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		CorrectionsByField: make(map[string]int64),
		EventsByAction:     make(map[string]int64),
		EventsByStage:      make(map[string]int64),
		EventsByStatus:     make(map[string]int64),
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(occurrence_count), 0) FROM learned_products`)
	if err := row.Scan(&stats.LearnedProducts, &stats.TotalSightings); err != nil {
		return nil, fmt.Errorf("count learned products: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM corrections`)
	if err := row.Scan(&stats.Corrections); err != nil {
		return nil, fmt.Errorf("count corrections: %w", err)
	}

	if err := s.countInto(ctx, stats.CorrectionsByField,
		`SELECT field, COUNT(1) FROM corrections GROUP BY field`); err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, stats.EventsByAction,
		`SELECT action, COUNT(1) FROM telemetry GROUP BY action`); err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, stats.EventsByStage,
		`SELECT stage, COUNT(1) FROM telemetry WHERE stage != '' GROUP BY stage`); err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, stats.EventsByStatus,
		`SELECT status, COUNT(1) FROM telemetry GROUP BY status`); err != nil {
		return nil, err
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(confidence), 0) FROM telemetry WHERE confidence > 0`)
	if err := row.Scan(&stats.AverageConfidence); err != nil {
		return nil, fmt.Errorf("average confidence: %w", err)
	}

	top, err := s.TopProducts(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = top
	return stats, nil
}

func (s *Store) countInto(ctx context.Context, dest map[string]int64, query string) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("aggregate query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan aggregate row: %w", err)
		}
		dest[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate aggregate rows: %w", err)
	}
	return nil
}
