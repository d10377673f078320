package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/notification"
	"github.com/fundsio/funds/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=store_mock.go -package=ledger
type Store interface {
	// Begin opens a unit of work holding the account's recomputation lock
	// until Commit or Rollback.
	Begin(ctx context.Context, ownerID, accountID uuid.UUID) (UnitOfWork, error)
}

// UnitOfWork groups every read and write of one pipeline run. Nothing is
// visible to other runs before Commit.
type UnitOfWork interface {
	GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error)
	SaveBalance(ctx context.Context, ownerID, id uuid.UUID, balance decimal.Decimal) error

	CreateTransaction(ctx context.Context, tx *transaction.Transaction) error
	ListTransactions(ctx context.Context, ownerID, accountID uuid.UUID, kind *transaction.Type) ([]*transaction.Transaction, error)
	FindDuplicates(ctx context.Context, ownerID, accountID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error)

	ListGoals(ctx context.Context, ownerID, accountID uuid.UUID) ([]*goal.Goal, error)
	SaveProgress(ctx context.Context, ownerID, id uuid.UUID, progress decimal.Decimal) error
	GetConstraint(ctx context.Context, ownerID, id uuid.UUID) (*constraint.Constraint, error)

	CreateNotification(ctx context.Context, n *notification.Notification) error

	Commit() error
	Rollback() error
}

type GoalReader interface {
	GetGoal(ctx context.Context, ownerID, id uuid.UUID) (*goal.Goal, error)
}

// Publisher pushes committed notifications. Satisfied by *notification.Service.
type Publisher interface {
	Publish(ctx context.Context, notifications ...*notification.Notification)
}

type Service struct {
	store     Store
	goals     GoalReader
	publisher Publisher
	locks     *keyedMutex
	now       func() time.Time
}

func NewService(store Store, goals GoalReader, publisher Publisher) *Service {
	return &Service{
		store:     store,
		goals:     goals,
		publisher: publisher,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	Transaction   *transaction.Transaction
	Account       *account.Account
	Goals         []*goal.Goal
	Notifications []*notification.Notification
}

type ImportResult struct {
	Imported      []*transaction.Transaction
	New           []transaction.CreateParams
	Conflicts     []transaction.Conflict
	Account       *account.Account
	Notifications []*notification.Notification
}

// RecordTransaction validates and inserts a transaction, then recomputes
// the account and its goals. All writes commit together or not at all.
func (s *Service) RecordTransaction(ctx context.Context, ownerID uuid.UUID, params transaction.CreateParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var tx *transaction.Transaction

	res, err := s.run(ctx, ownerID, params.AccountID, func(uow UnitOfWork, acc *account.Account) error {
		tx = params.Build(ownerID, s.now())
		tx.AccountName = acc.Name

		if err := uow.CreateTransaction(ctx, tx); err != nil {
			return fmt.Errorf("recording transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Transaction = tx

	return res, nil
}

// RecomputeAccount reruns the cascade for an account without writing a
// transaction, refreshing caches after edits or deletions.
func (s *Service) RecomputeAccount(ctx context.Context, ownerID, accountID uuid.UUID) (*Result, error) {
	return s.run(ctx, ownerID, accountID, nil)
}

// GoalProgress recomputes and stores one goal's progress. No constraint is
// evaluated.
func (s *Service) GoalProgress(ctx context.Context, ownerID, goalID uuid.UUID) (*goal.Goal, error) {
	g, err := s.goals.GetGoal(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}

	if !g.HasAccount() {
		return nil, goal.ErrNoAccount
	}

	unlock := s.locks.Lock(*g.AccountID)
	defer unlock()

	uow, err := s.store.Begin(ctx, ownerID, *g.AccountID)
	if err != nil {
		return nil, fmt.Errorf("begin progress: %w", err)
	}
	defer uow.Rollback()

	income := transaction.TypeIncome

	txs, err := uow.ListTransactions(ctx, ownerID, *g.AccountID, &income)
	if err != nil {
		return nil, fmt.Errorf("listing income: %w", err)
	}

	progress, err := EvaluateProgress(g, txs)
	if err != nil {
		return nil, err
	}

	if err := uow.SaveProgress(ctx, ownerID, g.ID, progress); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit progress: %w", err)
	}

	g.Progress = progress

	return g, nil
}

// ImportBatch records statement rows on one account. Rows matching an
// existing transaction are returned as conflicts and nothing is written,
// unless force is set, in which case every row is inserted. The cascade
// runs once for the whole batch.
func (s *Service) ImportBatch(
	ctx context.Context,
	ownerID, accountID uuid.UUID,
	params []transaction.CreateParams,
	force bool,
) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	rows := make([]transaction.CreateParams, len(params))
	for i, p := range params {
		p.AccountID = accountID
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		rows[i] = p
	}

	var out ImportResult

	res, err := s.run(ctx, ownerID, accountID, func(uow UnitOfWork, acc *account.Account) error {
		if !force {
			duplicates, err := uow.FindDuplicates(ctx, ownerID, accountID, rows)
			if err != nil {
				return fmt.Errorf("find duplicates: %w", err)
			}

			out.New, out.Conflicts = transaction.SplitConflicts(rows, duplicates)
			if len(out.Conflicts) > 0 {
				return errConflicts
			}
		}

		now := s.now()
		for _, p := range rows {
			tx := p.Build(ownerID, now)
			tx.AccountName = acc.Name

			if err := uow.CreateTransaction(ctx, tx); err != nil {
				return fmt.Errorf("create transactions: %w", err)
			}

			out.Imported = append(out.Imported, tx)
		}

		out.New = nil

		return nil
	})

	switch {
	case errors.Is(err, errConflicts):
		return &ImportResult{New: out.New, Conflicts: out.Conflicts}, nil
	case err != nil:
		return nil, err
	}

	out.Account = res.Account
	out.Notifications = res.Notifications

	return &out, nil
}

// errConflicts aborts an import run so its unit of work rolls back.
var errConflicts = errors.New("import has conflicts")

// run executes write inside a locked unit of work for the account, then the
// cascade, commits and publishes the notifications it created.
func (s *Service) run(
	ctx context.Context,
	ownerID, accountID uuid.UUID,
	write func(uow UnitOfWork, acc *account.Account) error,
) (*Result, error) {
	unlock := s.locks.Lock(accountID)
	defer unlock()

	uow, err := s.store.Begin(ctx, ownerID, accountID)
	if err != nil {
		return nil, fmt.Errorf("begin pipeline: %w", err)
	}
	defer uow.Rollback()

	acc, err := uow.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	if write != nil {
		if err := write(uow, acc); err != nil {
			return nil, err
		}
	}

	res, err := s.cascade(ctx, uow, acc)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit pipeline: %w", err)
	}

	if len(res.Notifications) > 0 && s.publisher != nil {
		s.publisher.Publish(ctx, res.Notifications...)
	}

	return res, nil
}

// cascade recomputes the balance, checks the budget, then recomputes every
// goal on the account and checks its constraint.
func (s *Service) cascade(ctx context.Context, uow UnitOfWork, acc *account.Account) (*Result, error) {
	ownerID := acc.OwnerID
	res := &Result{Account: acc}

	kind := RelevantType(acc.Type)

	relevant, err := uow.ListTransactions(ctx, ownerID, acc.ID, &kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s transactions: %w", kind, err)
	}

	balance := RecomputeBalance(acc.Type, relevant)
	if err := uow.SaveBalance(ctx, ownerID, acc.ID, balance); err != nil {
		return nil, err
	}

	acc.Balance = balance

	emit := func(v *notification.Violation) error {
		n := notification.New(ownerID, *v)
		if err := uow.CreateNotification(ctx, n); err != nil {
			return err
		}

		res.Notifications = append(res.Notifications, n)

		return nil
	}

	if v := CheckBudgetViolation(acc, balance); v != nil {
		if err := emit(v); err != nil {
			return nil, err
		}
	}

	goals, err := uow.ListGoals(ctx, ownerID, acc.ID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	if len(goals) == 0 {
		return res, nil
	}

	income := relevant
	if kind != transaction.TypeIncome {
		incomeType := transaction.TypeIncome

		income, err = uow.ListTransactions(ctx, ownerID, acc.ID, &incomeType)
		if err != nil {
			return nil, fmt.Errorf("listing income: %w", err)
		}
	}

	totals := totalsCache{uow: uow, ownerID: ownerID}
	totals.put(acc, balance)

	for _, g := range goals {
		progress, err := EvaluateProgress(g, income)
		if err != nil {
			continue
		}

		if err := uow.SaveProgress(ctx, ownerID, g.ID, progress); err != nil {
			return nil, err
		}

		g.Progress = progress
		res.Goals = append(res.Goals, g)

		c, err := uow.GetConstraint(ctx, ownerID, g.ConstraintID)
		if errors.Is(err, constraint.ErrNotFound) {
			slog.WarnContext(ctx, "goal constraint missing, skipping check", "goal_id", g.ID, "constraint_id", g.ConstraintID)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("loading constraint: %w", err)
		}

		scope := acc.ID
		if c.AccountID != nil {
			scope = *c.AccountID
		}

		total, name, err := totals.get(ctx, scope)
		if err != nil {
			return nil, err
		}

		if v := CheckViolation(g, c, progress, total, name); v != nil {
			if err := emit(v); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}

// totalsCache memoizes relevant-type totals of accounts referenced by
// scoped constraints during one cascade.
type totalsCache struct {
	uow     UnitOfWork
	ownerID uuid.UUID
	entries map[uuid.UUID]accountTotal
}

type accountTotal struct {
	name  string
	total decimal.Decimal
}

func (c *totalsCache) put(acc *account.Account, total decimal.Decimal) {
	if c.entries == nil {
		c.entries = make(map[uuid.UUID]accountTotal)
	}

	c.entries[acc.ID] = accountTotal{name: acc.Name, total: total}
}

func (c *totalsCache) get(ctx context.Context, id uuid.UUID) (decimal.Decimal, string, error) {
	if e, ok := c.entries[id]; ok {
		return e.total, e.name, nil
	}

	acc, err := c.uow.GetAccount(ctx, c.ownerID, id)
	if errors.Is(err, account.ErrNotFound) {
		c.entries[id] = accountTotal{total: decimal.Zero}
		return decimal.Zero, "", nil
	}

	if err != nil {
		return decimal.Zero, "", fmt.Errorf("loading constraint account: %w", err)
	}

	kind := RelevantType(acc.Type)

	txs, err := c.uow.ListTransactions(ctx, c.ownerID, acc.ID, &kind)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("listing constraint account transactions: %w", err)
	}

	total := RecomputeBalance(acc.Type, txs)
	c.put(acc, total)

	return total, acc.Name, nil
}
