package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings target tracked against an account and checked by a
// constraint. Progress is a cache that the ledger recomputes.
type Goal struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
	AccountID    *uuid.UUID // nil once the linked account is deleted
	ConstraintID uuid.UUID
	Progress     decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (g *Goal) HasAccount() bool {
	return g.AccountID != nil && *g.AccountID != uuid.Nil
}
