package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/notification"
)

var hundred = decimal.NewFromInt(100)

// CheckViolation evaluates the goal's constraint against its progress.
// accountTotal is the relevant-type total of the account the constraint
// measures against and accountName its name; both only matter for
// percentage constraints. A zero total never violates.
func CheckViolation(g *goal.Goal, c *constraint.Constraint, progress, accountTotal decimal.Decimal, accountName string) *notification.Violation {
	var msg string

	switch c.Type {
	case constraint.TypeMin:
		if !progress.LessThan(c.Value) {
			return nil
		}

		msg = fmt.Sprintf("%s progress ($%s) below min constraint ($%s)", g.Name, progress, c.Value)
	case constraint.TypeMax:
		if !progress.GreaterThan(c.Value) {
			return nil
		}

		msg = fmt.Sprintf("%s progress ($%s) exceeds max constraint ($%s)", g.Name, progress, c.Value)
	case constraint.TypePercentage:
		if accountTotal.IsZero() {
			return nil
		}

		pct := progress.Mul(hundred).Div(accountTotal)
		if !pct.GreaterThan(c.Value) {
			return nil
		}

		msg = fmt.Sprintf("%s progress (%s%%) of %s exceeds percentage constraint (%s%%)", g.Name, pct.StringFixed(2), accountName, c.Value)
	default:
		return nil
	}

	return &notification.Violation{
		Message:   msg,
		Type:      notification.TypeGoal,
		RelatedID: g.ID,
	}
}

// CheckBudgetViolation reports a balance strictly above a set budget.
func CheckBudgetViolation(acc *account.Account, balance decimal.Decimal) *notification.Violation {
	if !acc.HasBudget() || !balance.GreaterThan(*acc.Budget) {
		return nil
	}

	return &notification.Violation{
		Message:   fmt.Sprintf("Budget exceeded for %s! Total: $%s, Budget: $%s", acc.Name, balance, *acc.Budget),
		Type:      notification.TypeBudget,
		RelatedID: acc.ID,
	}
}
