package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error
}

// Service serves reads and edits of recorded transactions. Creation goes
// through the ledger so balances and goals stay in step. Update and
// Delete leave the cached balance and progress stale until the account is
// recomputed.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ownerID, filter)
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, ownerID, id)
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, ErrInvalidType
		}

		tx.Type = *params.Type
	}

	if params.Amount != nil {
		amount := params.Amount.Round(2)
		if !amount.IsPositive() {
			return nil, ErrInvalidAmount
		}

		if !money.Fits(amount) {
			return nil, ErrAmountTooLarge
		}

		tx.Amount = amount
	}

	if params.Category != nil {
		tx.Category = *params.Category
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.Date != nil && !params.Date.IsZero() {
		tx.Date = *params.Date
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, ownerID, id)
}
