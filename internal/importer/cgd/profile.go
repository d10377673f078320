package cgd

import (
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/transaction"
)

type amountMode int

const (
	// one signed column, e.g. "Montante" = "-10,00"
	amountSingle amountMode = iota
	// separate "Débito" and "Crédito" columns
	amountSplit
)

// Profile describes the column layout of one CGD export.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
}

func (p Profile) requiredCols() []string {
	if p.AmountMode == amountSplit {
		return []string{p.DateCol, p.DescCol, p.DebitCol, p.CreditCol}
	}

	return []string{p.DateCol, p.DescCol, p.AmountCol}
}

func (p Profile) matches(cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func (p Profile) amount(cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	if p.AmountMode == amountSingle {
		return signed(cell(row, cols[p.AmountCol]))
	}

	if d, kind, ok := unsigned(cell(row, cols[p.DebitCol]), transaction.TypeExpense); ok {
		return d, kind, true
	}

	return unsigned(cell(row, cols[p.CreditCol]), transaction.TypeIncome)
}

// Most specific first.
var profiles = []Profile{
	{
		Name:       "cartão",
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
	},
	{
		Name:       "extrato",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Movimento",
	},
	{
		Name:       "conta",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Montante",
	},
}
