package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/transaction"
)

func tx(accountID uuid.UUID, kind transaction.Type, amount string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      kind,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestRelevantType(t *testing.T) {
	assert.Equal(t, transaction.TypeExpense, ledger.RelevantType(account.TypeCredit))
	assert.Equal(t, transaction.TypeIncome, ledger.RelevantType(account.TypeDebit))
}

func TestRecomputeBalance(t *testing.T) {
	acc := uuid.New()
	mixed := []*transaction.Transaction{
		tx(acc, transaction.TypeIncome, "100"),
		tx(acc, transaction.TypeExpense, "40.50"),
		tx(acc, transaction.TypeIncome, "0.25"),
		tx(acc, transaction.TypeExpense, "9.50"),
	}

	tests := []struct {
		name string
		kind account.Type
		txs  []*transaction.Transaction
		want string
	}{
		{name: "DebitSumsIncome", kind: account.TypeDebit, txs: mixed, want: "100.25"},
		{name: "CreditSumsExpenses", kind: account.TypeCredit, txs: mixed, want: "50.00"},
		{name: "EmptyIsZero", kind: account.TypeDebit, txs: nil, want: "0.00"},
		{name: "NoRelevantIsZero", kind: account.TypeCredit, txs: []*transaction.Transaction{tx(acc, transaction.TypeIncome, "5")}, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.RecomputeBalance(tt.kind, tt.txs).StringFixed(2))
		})
	}
}

func TestRecomputeBalance_IsPure(t *testing.T) {
	acc := uuid.New()
	txs := []*transaction.Transaction{tx(acc, transaction.TypeIncome, "12.34"), tx(acc, transaction.TypeIncome, "0.66")}

	first := ledger.RecomputeBalance(account.TypeDebit, txs)
	second := ledger.RecomputeBalance(account.TypeDebit, txs)
	assert.True(t, first.Equal(second))
	assert.Equal(t, "13.00", first.StringFixed(2))
}

func TestEvaluateProgress(t *testing.T) {
	acc := uuid.New()
	other := uuid.New()

	t.Run("SumsIncomeOfGoalAccount", func(t *testing.T) {
		g := &goal.Goal{AccountID: &acc}
		txs := []*transaction.Transaction{
			tx(acc, transaction.TypeIncome, "150"),
			tx(acc, transaction.TypeExpense, "70"),
			tx(other, transaction.TypeIncome, "1000"),
			tx(acc, transaction.TypeIncome, "100"),
		}

		got, err := ledger.EvaluateProgress(g, txs)
		require.NoError(t, err)
		assert.Equal(t, "250.00", got.StringFixed(2))
	})

	t.Run("NoTransactions", func(t *testing.T) {
		got, err := ledger.EvaluateProgress(&goal.Goal{AccountID: &acc}, nil)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("NoLinkedAccount", func(t *testing.T) {
		_, err := ledger.EvaluateProgress(&goal.Goal{}, []*transaction.Transaction{tx(acc, transaction.TypeIncome, "1")})
		assert.ErrorIs(t, err, goal.ErrNoAccount)
	})
}
