package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/database"
	"github.com/fundsio/funds/internal/goal"
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

const selectGoalColumns = `id, user_id, name, target_amount, deadline, account_id, constraint_id, progress, created_at, updated_at`

func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	if err := s.Scan(
		&g.ID, &g.OwnerID, &g.Name, &g.TargetAmount, &g.Deadline, &g.AccountID,
		&g.ConstraintID, &g.Progress, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (user_id, name, target_amount, deadline, account_id, constraint_id, progress, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.OwnerID,
		g.Name,
		g.TargetAmount,
		g.Deadline,
		g.AccountID,
		g.ConstraintID,
		g.Progress,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, ownerID, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + `
		FROM goals
		WHERE id = $1 AND user_id = $2`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) FindByNameAndTarget(ctx context.Context, ownerID uuid.UUID, name string, target decimal.Decimal) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + `
		FROM goals
		WHERE user_id = $1 AND name = $2 AND target_amount = $3
		LIMIT 1`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, ownerID, name, target))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("finding goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, ownerID uuid.UUID, filter goal.ListFilter) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + `
		FROM goals
		WHERE user_id = $1`

	args := []any{ownerID}

	if filter.AccountID != nil {
		query += " AND account_id = $2"

		args = append(args, *filter.AccountID)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}

	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, deadline = $3, constraint_id = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.Name,
		g.TargetAmount,
		g.Deadline,
		g.ConstraintID,
		g.ID,
		g.OwnerID,
	).Scan(&g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return goal.ErrNotFound
		}

		return fmt.Errorf("updating goal: %w", err)
	}

	return nil
}

// SaveProgress overwrites the cached progress.
func (s *Store) SaveProgress(ctx context.Context, ownerID, id uuid.UUID, progress decimal.Decimal) error {
	query := `
		UPDATE goals
		SET progress = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	if _, err := s.db.ExecContext(ctx, query, progress, id, ownerID); err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}

	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	if n == 0 {
		return goal.ErrNotFound
	}

	return nil
}
