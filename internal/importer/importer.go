// Package importer turns bank statement exports into transaction rows.
package importer

import (
	"errors"
	"io"

	"github.com/fundsio/funds/internal/transaction"
)

type Bank string

const (
	BankCGD     Bank = "cgd"
	BankGeneric Bank = "generic"
)

var (
	ErrUnknownBank = errors.New("unknown bank")
	ErrMalformed   = errors.New("malformed statement")
)

// Parser reads one export format. Returned rows carry no account; the
// caller assigns it.
type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
