package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/money"
)

type CreateParams struct {
	AccountID   uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// Validate rejects input before anything is written.
func (p CreateParams) Validate() error {
	if p.AccountID == uuid.Nil {
		return ErrMissingAccount
	}

	if !p.Type.Valid() {
		return ErrInvalidType
	}

	if !p.Amount.Round(2).IsPositive() {
		return ErrInvalidAmount
	}

	if !money.Fits(p.Amount) {
		return ErrAmountTooLarge
	}

	return nil
}

// Build returns the transaction to insert for the owner. A zero date
// becomes now.
func (p CreateParams) Build(ownerID uuid.UUID, now time.Time) *Transaction {
	date := p.Date
	if date.IsZero() {
		date = now
	}

	return &Transaction{
		OwnerID:     ownerID,
		AccountID:   p.AccountID,
		Type:        p.Type,
		Amount:      p.Amount.Round(2),
		Category:    p.Category,
		Description: p.Description,
		Date:        date,
	}
}

type UpdateParams struct {
	Type        *Type
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *time.Time
}

type ListFilter struct {
	AccountID *uuid.UUID
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}
