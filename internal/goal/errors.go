package goal

import "errors"

var (
	ErrNotFound       = errors.New("goal not found")
	ErrDuplicate      = errors.New("goal already exists")
	ErrNoAccount      = errors.New("goal has no linked account")
	ErrInvalidName    = errors.New("goal name is required")
	ErrInvalidTarget  = errors.New("target amount must be greater than zero")
	ErrTargetTooLarge = errors.New("target amount must be less than 1000000000000")
)
