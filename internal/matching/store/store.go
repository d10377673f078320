package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/database"
)

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, ownerID uuid.UUID, description string) (string, error) {
	query := `
		SELECT category
		FROM description_mappings
		WHERE user_id = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, ownerID, description).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return category, nil
}

// CreateMapping stores pattern -> category for the owner. Learning a pattern
// again replaces its category.
func (s *Store) CreateMapping(ctx context.Context, ownerID uuid.UUID, pattern, category string) error {
	query := `
		INSERT INTO description_mappings (user_id, raw_pattern, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, raw_pattern)
		DO UPDATE SET category = EXCLUDED.category, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, ownerID, pattern, category); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
