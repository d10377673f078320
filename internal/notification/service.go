package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, ownerID uuid.UUID) ([]*Notification, error)
	MarkRead(ctx context.Context, ownerID, id uuid.UUID) (*Notification, error)
}

// Publisher pushes a notification to live subscribers of an owner.
// Delivery is best-effort: implementations must not block the caller on
// slow or absent subscribers and report failures through logging only.
type Publisher interface {
	Publish(ctx context.Context, ownerID uuid.UUID, n *Notification)
}

type Service struct {
	repo      Repository
	publisher Publisher
}

func NewService(repo Repository, publisher Publisher) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}

	return &Service{repo: repo, publisher: publisher}
}

// Emit persists a notification for the violation and pushes it to the owner.
func (s *Service) Emit(ctx context.Context, ownerID uuid.UUID, v Violation) (*Notification, error) {
	n := New(ownerID, v)
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	s.publisher.Publish(ctx, ownerID, n)

	return n, nil
}

// Publish pushes notifications that were already persisted elsewhere,
// e.g. inside the recomputation unit of work.
func (s *Service) Publish(ctx context.Context, notifications ...*Notification) {
	for _, n := range notifications {
		s.publisher.Publish(ctx, n.OwnerID, n)
	}
}

// List returns the owner's notifications, newest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListNotifications(ctx, ownerID)
}

// MarkRead flips the read flag. The transition is one-way.
func (s *Service) MarkRead(ctx context.Context, ownerID, id uuid.UUID) (*Notification, error) {
	return s.repo.MarkRead(ctx, ownerID, id)
}
