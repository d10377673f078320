package constraint

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type selects the rule a constraint applies to goal progress.
type Type string

const (
	TypeMin        Type = "min"        // progress must be at least Value
	TypeMax        Type = "max"        // progress must be at most Value
	TypePercentage Type = "percentage" // progress share of the account total must be at most Value%
)

func (t Type) Valid() bool {
	switch t {
	case TypeMin, TypeMax, TypePercentage:
		return true
	}

	return false
}

// Constraint is a reusable rule referenced by goals. AccountID optionally
// scopes a percentage rule to an account other than the goal's own.
type Constraint struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Type      Type
	Value     decimal.Decimal
	AccountID *uuid.UUID
	CreatedAt time.Time
}
