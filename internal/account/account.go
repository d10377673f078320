package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type decides which transactions count toward an account's balance.
type Type string

const (
	TypeCredit Type = "credit" // balance tracks spending
	TypeDebit  Type = "debit"  // balance tracks income
)

func (t Type) Valid() bool {
	return t == TypeCredit || t == TypeDebit
}

// Account is a named bucket owned by a user. Balance is a cache that the
// ledger recomputes from the account's transactions.
type Account struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Type      Type
	Budget    *decimal.Decimal
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// HasBudget reports whether a budget limit is set. Zero counts as unset.
func (a *Account) HasBudget() bool {
	return a.Budget != nil && !a.Budget.IsZero()
}
