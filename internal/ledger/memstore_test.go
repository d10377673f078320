package ledger_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/notification"
	"github.com/fundsio/funds/internal/transaction"
)

// memStore is an in-memory ledger.Store. Writes of a unit of work are staged
// and only applied on Commit, so rollback behavior can be observed.
type memStore struct {
	mu            sync.Mutex
	accounts      map[uuid.UUID]*account.Account
	txs           []*transaction.Transaction
	goals         []*goal.Goal
	constraints   map[uuid.UUID]*constraint.Constraint
	notifications []*notification.Notification
	failOn        string
	begins        int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:    make(map[uuid.UUID]*account.Account),
		constraints: make(map[uuid.UUID]*constraint.Constraint),
	}
}

func (s *memStore) addAccount(owner uuid.UUID, name string, kind account.Type, budget *decimal.Decimal) *account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := &account.Account{ID: uuid.New(), OwnerID: owner, Name: name, Type: kind, Budget: budget}
	s.accounts[acc.ID] = acc

	return acc
}

func (s *memStore) addConstraint(owner uuid.UUID, kind constraint.Type, value string, scope *uuid.UUID) *constraint.Constraint {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &constraint.Constraint{ID: uuid.New(), OwnerID: owner, Type: kind, Value: decimal.RequireFromString(value), AccountID: scope}
	s.constraints[c.ID] = c

	return c
}

func (s *memStore) addGoal(owner uuid.UUID, name, target string, accountID *uuid.UUID, constraintID uuid.UUID) *goal.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &goal.Goal{
		ID:           uuid.New(),
		OwnerID:      owner,
		Name:         name,
		TargetAmount: decimal.RequireFromString(target),
		AccountID:    accountID,
		ConstraintID: constraintID,
	}
	s.goals = append(s.goals, g)

	return g
}

func (s *memStore) addTransaction(tx *transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.New()
	s.txs = append(s.txs, tx)
}

func (s *memStore) removeTransaction(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = slices.DeleteFunc(s.txs, func(tx *transaction.Transaction) bool { return tx.ID == id })
}

func (s *memStore) balance(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accounts[id].Balance
}

func (s *memStore) progress(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.goals {
		if g.ID == id {
			return g.Progress
		}
	}

	return decimal.Zero
}

func (s *memStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.txs)
}

func (s *memStore) storedNotifications() []*notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.notifications)
}

func (s *memStore) GetGoal(_ context.Context, ownerID, id uuid.UUID) (*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.goals {
		if g.ID == id && g.OwnerID == ownerID {
			cp := *g
			return &cp, nil
		}
	}

	return nil, goal.ErrNotFound
}

func (s *memStore) Begin(_ context.Context, _, _ uuid.UUID) (ledger.UnitOfWork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.begins++

	return &memUnitOfWork{
		s:        s,
		balances: make(map[uuid.UUID]decimal.Decimal),
		progress: make(map[uuid.UUID]decimal.Decimal),
	}, nil
}

type memUnitOfWork struct {
	s             *memStore
	txs           []*transaction.Transaction
	balances      map[uuid.UUID]decimal.Decimal
	progress      map[uuid.UUID]decimal.Decimal
	notifications []*notification.Notification
}

func (u *memUnitOfWork) fail(op string) error {
	if u.s.failOn == op {
		return errors.New(op + " failed")
	}

	return nil
}

func (u *memUnitOfWork) GetAccount(_ context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	acc, ok := u.s.accounts[id]
	if !ok || acc.OwnerID != ownerID {
		return nil, account.ErrNotFound
	}

	cp := *acc
	if b, ok := u.balances[id]; ok {
		cp.Balance = b
	}

	return &cp, nil
}

func (u *memUnitOfWork) SaveBalance(_ context.Context, _, id uuid.UUID, balance decimal.Decimal) error {
	if err := u.fail("SaveBalance"); err != nil {
		return err
	}

	u.balances[id] = balance

	return nil
}

func (u *memUnitOfWork) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	if err := u.fail("CreateTransaction"); err != nil {
		return err
	}

	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	u.txs = append(u.txs, tx)

	return nil
}

func (u *memUnitOfWork) visibleTransactions() []*transaction.Transaction {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	return append(slices.Clone(u.s.txs), u.txs...)
}

func (u *memUnitOfWork) ListTransactions(_ context.Context, ownerID, accountID uuid.UUID, kind *transaction.Type) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction

	for _, tx := range u.visibleTransactions() {
		if tx.OwnerID != ownerID || tx.AccountID != accountID {
			continue
		}

		if kind != nil && tx.Type != *kind {
			continue
		}

		out = append(out, tx)
	}

	return out, nil
}

func (u *memUnitOfWork) FindDuplicates(ctx context.Context, ownerID, accountID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	all, _ := u.ListTransactions(ctx, ownerID, accountID, nil)

	var out []*transaction.Transaction

	for _, tx := range all {
		if transaction.IsDuplicate(tx, params) {
			out = append(out, tx)
		}
	}

	return out, nil
}

func (u *memUnitOfWork) ListGoals(_ context.Context, ownerID, accountID uuid.UUID) ([]*goal.Goal, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	var out []*goal.Goal

	for _, g := range u.s.goals {
		if g.OwnerID == ownerID && g.AccountID != nil && *g.AccountID == accountID {
			cp := *g
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (u *memUnitOfWork) SaveProgress(_ context.Context, _, id uuid.UUID, progress decimal.Decimal) error {
	if err := u.fail("SaveProgress"); err != nil {
		return err
	}

	u.progress[id] = progress

	return nil
}

func (u *memUnitOfWork) GetConstraint(_ context.Context, ownerID, id uuid.UUID) (*constraint.Constraint, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	c, ok := u.s.constraints[id]
	if !ok || c.OwnerID != ownerID {
		return nil, constraint.ErrNotFound
	}

	return c, nil
}

func (u *memUnitOfWork) CreateNotification(_ context.Context, n *notification.Notification) error {
	if err := u.fail("CreateNotification"); err != nil {
		return err
	}

	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	u.notifications = append(u.notifications, n)

	return nil
}

func (u *memUnitOfWork) Commit() error {
	if err := u.fail("Commit"); err != nil {
		return err
	}

	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	u.s.txs = append(u.s.txs, u.txs...)

	for id, b := range u.balances {
		u.s.accounts[id].Balance = b
	}

	for _, g := range u.s.goals {
		if p, ok := u.progress[g.ID]; ok {
			g.Progress = p
		}
	}

	u.s.notifications = append(u.s.notifications, u.notifications...)

	return nil
}

func (u *memUnitOfWork) Rollback() error { return nil }

type recordingPublisher struct {
	mu  sync.Mutex
	got []*notification.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, notifications ...*notification.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.got = append(p.got, notifications...)
}

func (p *recordingPublisher) published() []*notification.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.got)
}
