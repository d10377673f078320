package transaction

import "errors"

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrInvalidType    = errors.New("type must be income or expense")
	ErrMissingAccount = errors.New("account is required")
	ErrAmountTooLarge = errors.New("amount must be less than 1000000000000")
)
