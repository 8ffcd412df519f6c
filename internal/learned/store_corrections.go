package learned

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RecordCorrection appends one user edit. Corrections are never merged or
// deduplicated; each edit is its own row so per-field trends stay visible.
func (s *Store) RecordCorrection(ctx context.Context, itemID, field, original, corrected string) (*Correction, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, fmt.Errorf("record correction: field required")
	}
	now := time.Now()
	summary := fmt.Sprintf("%s: %q -> %q", field, original, corrected)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO corrections (item_id, field, original_value, corrected_value, summary, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(itemID), field, original, corrected, summary, timestamp(now))
	if err != nil {
		return nil, fmt.Errorf("record correction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("correction id: %w", err)
	}
	return &Correction{
		ID:             id,
		ItemID:         strings.TrimSpace(itemID),
		Field:          field,
		OriginalValue:  original,
		CorrectedValue: corrected,
		Summary:        summary,
		CreatedAt:      now.UTC(),
	}, nil
}

// CorrectionsForItem lists the append-only edit history of one item, oldest
// first.
func (s *Store) CorrectionsForItem(ctx context.Context, itemID string) ([]Correction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, field, original_value, corrected_value, summary, created_at
         FROM corrections WHERE item_id = ? ORDER BY id ASC`, strings.TrimSpace(itemID))
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	var out []Correction
	for rows.Next() {
		var (
			c       Correction
			created string
		)
		if err := rows.Scan(&c.ID, &c.ItemID, &c.Field, &c.OriginalValue, &c.CorrectedValue, &c.Summary, &created); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		c.CreatedAt = parseTimestamp(created)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corrections: %w", err)
	}
	return out, nil
}
