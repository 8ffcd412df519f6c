package learned

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Observe upserts one sighting. A new key inserts with occurrence_count = 1;
// an existing key increments the count and advances last_seen_at. Confidence
// keeps the highest value seen so one weak re-sighting cannot degrade a
// strong record. Concurrent upserts for the same key are safe under the
// increment rule; last_seen_at is last-writer-wins.
func (s *Store) Observe(ctx context.Context, sighting Sighting) error {
	if strings.TrimSpace(sighting.Name) == "" {
		return errors.New("observe: product name required")
	}
	now := timestamp(time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learned_products (lookup_key, brand, name, category, confidence, occurrence_count, first_seen_at, last_seen_at)
         VALUES (?, ?, ?, ?, ?, 1, ?, ?)
         ON CONFLICT(lookup_key) DO UPDATE SET
             occurrence_count = occurrence_count + 1,
             confidence = MAX(confidence, excluded.confidence),
             last_seen_at = excluded.last_seen_at`,
		sighting.Key(),
		strings.TrimSpace(sighting.Brand),
		strings.TrimSpace(sighting.Name),
		strings.TrimSpace(sighting.Category),
		sighting.Confidence,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("observe product: %w", err)
	}
	return nil
}

// Lookup fetches the learned record matching a sighting's identity.
func (s *Store) Lookup(ctx context.Context, brand, name, category string) (*LearnedProduct, bool, error) {
	key := Sighting{Brand: brand, Name: name, Category: category}.Key()
	row := s.db.QueryRowContext(ctx,
		`SELECT id, brand, name, category, confidence, occurrence_count, first_seen_at, last_seen_at
         FROM learned_products WHERE lookup_key = ?`, key)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup product: %w", err)
	}
	return product, true, nil
}

// TopProducts lists the most frequently sighted products, most seen first.
func (s *Store) TopProducts(ctx context.Context, limit int) ([]LearnedProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brand, name, category, confidence, occurrence_count, first_seen_at, last_seen_at
         FROM learned_products ORDER BY occurrence_count DESC, last_seen_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list top products: %w", err)
	}
	defer rows.Close()

	var out []LearnedProduct
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// ProductsForCategory lists learned products in one category, most seen
// first, for enrichment previews.
func (s *Store) ProductsForCategory(ctx context.Context, category string, limit int) ([]LearnedProduct, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brand, name, category, confidence, occurrence_count, first_seen_at, last_seen_at
         FROM learned_products WHERE category = ?
         ORDER BY occurrence_count DESC, last_seen_at DESC LIMIT ?`,
		strings.TrimSpace(category), limit)
	if err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}
	defer rows.Close()

	var out []LearnedProduct
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*LearnedProduct, error) {
	var (
		product   LearnedProduct
		firstSeen string
		lastSeen  string
	)
	if err := row.Scan(&product.ID, &product.Brand, &product.Name, &product.Category,
		&product.Confidence, &product.OccurrenceCount, &firstSeen, &lastSeen); err != nil {
		return nil, err
	}
	product.FirstSeenAt = parseTimestamp(firstSeen)
	product.LastSeenAt = parseTimestamp(lastSeen)
	return &product, nil
}
