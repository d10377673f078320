package constraint

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=constraint
type Repository interface {
	CreateConstraint(ctx context.Context, c *Constraint) error
	GetConstraint(ctx context.Context, ownerID, id uuid.UUID) (*Constraint, error)
	ListConstraints(ctx context.Context, ownerID uuid.UUID) ([]*Constraint, error)
}

// AccountReader resolves accounts for ownership checks.
type AccountReader interface {
	GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error)
}

type Service struct {
	repo     Repository
	accounts AccountReader
}

func NewService(repo Repository, accounts AccountReader) *Service {
	return &Service{repo: repo, accounts: accounts}
}

type CreateParams struct {
	Type      Type
	Value     decimal.Decimal
	AccountID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Constraint, error) {
	if !params.Type.Valid() {
		return nil, ErrInvalidKind
	}

	if params.Value.IsNegative() {
		return nil, ErrInvalidValue
	}

	if !money.Fits(params.Value) {
		return nil, ErrValueTooLarge
	}

	accountID := params.AccountID
	if accountID != nil && *accountID == uuid.Nil {
		accountID = nil
	}

	if accountID != nil {
		if _, err := s.accounts.GetAccount(ctx, ownerID, *accountID); err != nil {
			return nil, fmt.Errorf("resolving constraint account: %w", err)
		}
	}

	c := &Constraint{
		OwnerID:   ownerID,
		Type:      params.Type,
		Value:     params.Value.Round(2),
		AccountID: accountID,
	}
	if err := s.repo.CreateConstraint(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Constraint, error) {
	return s.repo.ListConstraints(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Constraint, error) {
	return s.repo.GetConstraint(ctx, ownerID, id)
}
