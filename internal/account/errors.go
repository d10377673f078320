package account

import "errors"

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicate      = errors.New("account already exists")
	ErrInvalidName    = errors.New("account name is required")
	ErrInvalidType    = errors.New("invalid account type")
	ErrInvalidBudget  = errors.New("budget cannot be negative")
	ErrBudgetTooLarge = errors.New("budget must be less than 1000000000000")
)
