package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/database"
)

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectConstraintColumns = `id, user_id, type, value, account_id, created_at`

func scanConstraint(s scanner) (*constraint.Constraint, error) {
	var c constraint.Constraint

	var typeStr string

	if err := s.Scan(&c.ID, &c.OwnerID, &typeStr, &c.Value, &c.AccountID, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.Type = constraint.Type(typeStr)

	return &c, nil
}

func (s *Store) CreateConstraint(ctx context.Context, c *constraint.Constraint) error {
	query := `
		INSERT INTO goal_constraints (user_id, type, value, account_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.OwnerID, c.Type, c.Value, c.AccountID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating constraint: %w", err)
	}

	return nil
}

func (s *Store) GetConstraint(ctx context.Context, ownerID, id uuid.UUID) (*constraint.Constraint, error) {
	query := `SELECT ` + selectConstraintColumns + `
		FROM goal_constraints
		WHERE id = $1 AND user_id = $2`

	c, err := scanConstraint(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, constraint.ErrNotFound
		}

		return nil, fmt.Errorf("getting constraint: %w", err)
	}

	return c, nil
}

func (s *Store) ListConstraints(ctx context.Context, ownerID uuid.UUID) ([]*constraint.Constraint, error) {
	query := `SELECT ` + selectConstraintColumns + `
		FROM goal_constraints
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing constraints: %w", err)
	}
	defer rows.Close()

	var out []*constraint.Constraint

	for rows.Next() {
		c, err := scanConstraint(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning constraint: %w", err)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating constraints: %w", err)
	}

	return out, nil
}
