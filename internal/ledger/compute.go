// Package ledger runs the recomputation pipeline: after a transaction lands
// on an account it recomputes the account balance, checks the budget,
// recomputes progress of every goal on the account, checks each goal's
// constraint and records a notification for every violation.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/transaction"
)

// RelevantType returns the transaction type an account's balance is built
// from: expenses for credit accounts, income for debit accounts.
func RelevantType(t account.Type) transaction.Type {
	if t == account.TypeCredit {
		return transaction.TypeExpense
	}

	return transaction.TypeIncome
}

// RecomputeBalance sums the transactions of the account type's relevant
// kind. Amounts are taken as stored.
func RecomputeBalance(t account.Type, txs []*transaction.Transaction) decimal.Decimal {
	kind := RelevantType(t)
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type == kind {
			total = total.Add(tx.Amount)
		}
	}

	return total
}

// EvaluateProgress sums the income recorded on the goal's account,
// whatever the account type.
func EvaluateProgress(g *goal.Goal, txs []*transaction.Transaction) (decimal.Decimal, error) {
	if !g.HasAccount() {
		return decimal.Zero, goal.ErrNoAccount
	}

	progress := decimal.Zero

	for _, tx := range txs {
		if tx.Type == transaction.TypeIncome && tx.AccountID == *g.AccountID {
			progress = progress.Add(tx.Amount)
		}
	}

	return progress, nil
}
