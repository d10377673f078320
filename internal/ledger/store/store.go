// Package store backs the ledger's unit of work with one SQL transaction
// and delegates every query to the domain stores.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	accountstore "github.com/fundsio/funds/internal/account/store"
	"github.com/fundsio/funds/internal/constraint"
	constraintstore "github.com/fundsio/funds/internal/constraint/store"
	"github.com/fundsio/funds/internal/goal"
	goalstore "github.com/fundsio/funds/internal/goal/store"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/notification"
	notificationstore "github.com/fundsio/funds/internal/notification/store"
	"github.com/fundsio/funds/internal/transaction"
	transactionstore "github.com/fundsio/funds/internal/transaction/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func accountLockKey(accountID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("ledger"))
	h.Write([]byte{0})
	h.Write(accountID[:])

	return int64(h.Sum64())
}

// Begin starts a transaction and takes a transaction-scoped advisory lock on
// the account, serializing pipeline runs across API instances.
func (s *Store) Begin(ctx context.Context, _, accountID uuid.UUID) (ledger.UnitOfWork, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", accountLockKey(accountID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring account lock: %w", err)
	}

	return &unitOfWork{
		tx:            dbTx,
		accounts:      accountstore.New(dbTx),
		transactions:  transactionstore.New(dbTx),
		goals:         goalstore.New(dbTx),
		constraints:   constraintstore.New(dbTx),
		notifications: notificationstore.New(dbTx),
	}, nil
}

type unitOfWork struct {
	tx            *sql.Tx
	accounts      *accountstore.Store
	transactions  *transactionstore.Store
	goals         *goalstore.Store
	constraints   *constraintstore.Store
	notifications *notificationstore.Store
}

func (u *unitOfWork) GetAccount(ctx context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	return u.accounts.GetAccount(ctx, ownerID, id)
}

func (u *unitOfWork) SaveBalance(ctx context.Context, ownerID, id uuid.UUID, balance decimal.Decimal) error {
	return u.accounts.SaveBalance(ctx, ownerID, id, balance)
}

func (u *unitOfWork) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return u.transactions.CreateTransaction(ctx, tx)
}

func (u *unitOfWork) ListTransactions(ctx context.Context, ownerID, accountID uuid.UUID, kind *transaction.Type) ([]*transaction.Transaction, error) {
	return u.transactions.ListTransactions(ctx, ownerID, transaction.ListFilter{
		AccountID: &accountID,
		Type:      kind,
	})
}

func (u *unitOfWork) FindDuplicates(ctx context.Context, ownerID, accountID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	return u.transactions.FindDuplicates(ctx, ownerID, accountID, params)
}

func (u *unitOfWork) ListGoals(ctx context.Context, ownerID, accountID uuid.UUID) ([]*goal.Goal, error) {
	return u.goals.ListGoals(ctx, ownerID, goal.ListFilter{AccountID: &accountID})
}

func (u *unitOfWork) SaveProgress(ctx context.Context, ownerID, id uuid.UUID, progress decimal.Decimal) error {
	return u.goals.SaveProgress(ctx, ownerID, id, progress)
}

func (u *unitOfWork) GetConstraint(ctx context.Context, ownerID, id uuid.UUID) (*constraint.Constraint, error) {
	return u.constraints.GetConstraint(ctx, ownerID, id)
}

func (u *unitOfWork) CreateNotification(ctx context.Context, n *notification.Notification) error {
	return u.notifications.CreateNotification(ctx, n)
}

func (u *unitOfWork) Commit() error { return u.tx.Commit() }

// Rollback is a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}
