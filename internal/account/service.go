package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/money"
	"github.com/fundsio/funds/internal/notification"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, acc *Account) error
	GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*Account, error)
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*Account, error)
	ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*Account, error)
	UpdateAccount(ctx context.Context, acc *Account) error
	DeleteAccount(ctx context.Context, ownerID, id uuid.UUID) error
}

// Notifier emits owner notifications. Satisfied by *notification.Service.
type Notifier interface {
	Emit(ctx context.Context, ownerID uuid.UUID, v notification.Violation) (*notification.Notification, error)
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

type CreateParams struct {
	Name   string
	Type   Type
	Budget *decimal.Decimal
}

type UpdateParams struct {
	Name   *string
	Budget *decimal.Decimal
}

func normalizeBudget(b *decimal.Decimal) (*decimal.Decimal, error) {
	if b == nil {
		return nil, nil
	}

	if b.IsNegative() {
		return nil, ErrInvalidBudget
	}

	if !money.Fits(*b) {
		return nil, ErrBudgetTooLarge
	}

	return new(b.Round(2)), nil
}

// Create inserts a new account. A name already used by the owner raises a
// general notification pointing at the existing account and fails with
// ErrDuplicate.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Account, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	kind := params.Type
	if kind == "" {
		kind = TypeDebit
	}

	if !kind.Valid() {
		return nil, ErrInvalidType
	}

	budget, err := normalizeBudget(params.Budget)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, ownerID, name)
	switch {
	case err == nil:
		s.notifyDuplicate(ctx, ownerID, existing)
		return nil, fmt.Errorf("creating account %q: %w", name, ErrDuplicate)
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("checking account name: %w", err)
	}

	acc := &Account{
		OwnerID: ownerID,
		Name:    name,
		Type:    kind,
		Budget:  budget,
		Balance: decimal.Zero,
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *Service) notifyDuplicate(ctx context.Context, ownerID uuid.UUID, existing *Account) {
	if s.notifier == nil {
		return
	}

	_, err := s.notifier.Emit(ctx, ownerID, notification.Violation{
		Message:   fmt.Sprintf("Account %q already exists for your profile", existing.Name),
		Type:      notification.TypeGeneral,
		RelatedID: existing.ID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to emit duplicate account notification", "error", err, "account_id", existing.ID)
	}
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, ownerID, id)
}

// Update changes the name and/or budget. A zero budget clears the limit.
// The balance is left to the ledger.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateParams) (*Account, error) {
	acc, err := s.repo.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrInvalidName
		}

		acc.Name = name
	}

	if params.Budget != nil {
		budget, err := normalizeBudget(params.Budget)
		if err != nil {
			return nil, err
		}

		if budget.IsZero() {
			budget = nil
		}

		acc.Budget = budget
	}

	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, ownerID, id)
}
