package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/database"
	"github.com/fundsio/funds/internal/notification"
)

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

const selectNotificationColumns = `id, user_id, message, type, related_id, read, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(s scanner) (*notification.Notification, error) {
	var n notification.Notification

	var typeStr string

	if err := s.Scan(&n.ID, &n.OwnerID, &n.Message, &typeStr, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}

	n.Type = notification.Type(typeStr)

	return &n, nil
}

func (s *Store) CreateNotification(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, type, related_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		n.OwnerID,
		n.Message,
		n.Type,
		n.RelatedID,
		n.Read,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

func (s *Store) ListNotifications(ctx context.Context, ownerID uuid.UUID) ([]*notification.Notification, error) {
	query := `SELECT ` + selectNotificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*notification.Notification

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		out = append(out, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return out, nil
}

func (s *Store) MarkRead(ctx context.Context, ownerID, id uuid.UUID) (*notification.Notification, error) {
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING ` + selectNotificationColumns

	n, err := scanNotification(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notification.ErrNotFound
		}

		return nil, fmt.Errorf("marking notification read: %w", err)
	}

	return n, nil
}
