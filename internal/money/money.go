// Package money holds the bounds shared by every stored amount.
package money

import "github.com/shopspring/decimal"

// Limit is the smallest magnitude a NUMERIC(14,2) column cannot hold.
var Limit = decimal.New(1, 12)

// Fits reports whether d, rounded to cents, can be stored.
func Fits(d decimal.Decimal) bool {
	return d.Round(2).Abs().LessThan(Limit)
}
