package goal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/money"
	"github.com/fundsio/funds/internal/notification"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, ownerID, id uuid.UUID) (*Goal, error)
	FindByNameAndTarget(ctx context.Context, ownerID uuid.UUID, name string, target decimal.Decimal) (*Goal, error)
	ListGoals(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Goal, error)
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, ownerID, id uuid.UUID) error
}

type AccountReader interface {
	GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error)
}

type ConstraintReader interface {
	GetConstraint(ctx context.Context, ownerID, id uuid.UUID) (*constraint.Constraint, error)
}

type Notifier interface {
	Emit(ctx context.Context, ownerID uuid.UUID, v notification.Violation) (*notification.Notification, error)
}

type Service struct {
	repo        Repository
	accounts    AccountReader
	constraints ConstraintReader
	notifier    Notifier
}

func NewService(repo Repository, accounts AccountReader, constraints ConstraintReader, notifier Notifier) *Service {
	return &Service{
		repo:        repo,
		accounts:    accounts,
		constraints: constraints,
		notifier:    notifier,
	}
}

type CreateParams struct {
	Name         string
	TargetAmount decimal.Decimal // ignored by CreateWithComputedTarget
	Deadline     *time.Time
	AccountID    uuid.UUID
	ConstraintID uuid.UUID
}

type UpdateParams struct {
	Name         *string
	TargetAmount *decimal.Decimal
	Deadline     *time.Time
	ConstraintID *uuid.UUID
}

type ListFilter struct {
	AccountID *uuid.UUID
}

func (s *Service) resolve(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*account.Account, *constraint.Constraint, error) {
	if params.AccountID == uuid.Nil {
		return nil, nil, ErrNoAccount
	}

	acc, err := s.accounts.GetAccount(ctx, ownerID, params.AccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving goal account: %w", err)
	}

	c, err := s.constraints.GetConstraint(ctx, ownerID, params.ConstraintID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving goal constraint: %w", err)
	}

	return acc, c, nil
}

// CreateWithExplicitTarget creates a goal with the target the caller supplied.
func (s *Service) CreateWithExplicitTarget(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Goal, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	target := params.TargetAmount.Round(2)
	if !target.IsPositive() {
		return nil, ErrInvalidTarget
	}

	if !money.Fits(target) {
		return nil, ErrTargetTooLarge
	}

	acc, c, err := s.resolve(ctx, ownerID, params)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, ownerID, name, target, params.Deadline, acc, c)
}

// CreateWithComputedTarget creates a goal whose target is derived from its
// constraint, see ComputeTarget. A percentage constraint scoped to an account
// takes its share of that account, the same one the cascade checks against.
// Unscoped constraints use the goal's account.
func (s *Service) CreateWithComputedTarget(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Goal, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	acc, c, err := s.resolve(ctx, ownerID, params)
	if err != nil {
		return nil, err
	}

	base := acc
	if c.Type == constraint.TypePercentage && c.AccountID != nil && *c.AccountID != acc.ID {
		base, err = s.accounts.GetAccount(ctx, ownerID, *c.AccountID)
		if err != nil {
			return nil, fmt.Errorf("resolving constraint account: %w", err)
		}
	}

	target := ComputeTarget(c, base)
	if !target.IsPositive() {
		return nil, fmt.Errorf("computed target %s: %w", target, ErrInvalidTarget)
	}

	if !money.Fits(target) {
		return nil, fmt.Errorf("computed target %s: %w", target, ErrTargetTooLarge)
	}

	return s.create(ctx, ownerID, name, target, params.Deadline, acc, c)
}

func (s *Service) create(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
	target decimal.Decimal,
	deadline *time.Time,
	acc *account.Account,
	c *constraint.Constraint,
) (*Goal, error) {
	existing, err := s.repo.FindByNameAndTarget(ctx, ownerID, name, target)
	switch {
	case err == nil:
		s.notifyDuplicate(ctx, ownerID, existing)
		return nil, fmt.Errorf("creating goal %q: %w", name, ErrDuplicate)
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("checking goal duplicate: %w", err)
	}

	g := &Goal{
		OwnerID:      ownerID,
		Name:         name,
		TargetAmount: target,
		Deadline:     deadline,
		AccountID:    new(acc.ID),
		ConstraintID: c.ID,
		Progress:     decimal.Zero,
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) notifyDuplicate(ctx context.Context, ownerID uuid.UUID, existing *Goal) {
	if s.notifier == nil {
		return
	}

	_, err := s.notifier.Emit(ctx, ownerID, notification.Violation{
		Message:   fmt.Sprintf("Goal %q with target $%s already exists for your profile", existing.Name, existing.TargetAmount),
		Type:      notification.TypeGoal,
		RelatedID: existing.ID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to emit duplicate goal notification", "error", err, "goal_id", existing.ID)
	}
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Goal, error) {
	return s.repo.GetGoal(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]*Goal, error) {
	return s.repo.ListGoals(ctx, ownerID, filter)
}

// Update edits the goal definition. Progress is left to the ledger.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateParams) (*Goal, error) {
	g, err := s.repo.GetGoal(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrInvalidName
		}

		g.Name = name
	}

	if params.TargetAmount != nil {
		target := params.TargetAmount.Round(2)
		if !target.IsPositive() {
			return nil, ErrInvalidTarget
		}

		if !money.Fits(target) {
			return nil, ErrTargetTooLarge
		}

		g.TargetAmount = target
	}

	if params.Deadline != nil {
		g.Deadline = params.Deadline
	}

	if params.ConstraintID != nil && *params.ConstraintID != g.ConstraintID {
		c, err := s.constraints.GetConstraint(ctx, ownerID, *params.ConstraintID)
		if err != nil {
			return nil, fmt.Errorf("resolving goal constraint: %w", err)
		}

		g.ConstraintID = c.ID
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteGoal(ctx, ownerID, id)
}
