package goal

import (
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/constraint"
)

var hundred = decimal.NewFromInt(100)

// ComputeTarget derives a goal target from its constraint. min and max use
// the constraint value directly; percentage takes that share of base's
// current balance.
func ComputeTarget(c *constraint.Constraint, base *account.Account) decimal.Decimal {
	if c.Type == constraint.TypePercentage {
		return base.Balance.Mul(c.Value).Div(hundred).Round(2)
	}

	return c.Value.Round(2)
}
