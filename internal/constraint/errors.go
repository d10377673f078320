package constraint

import "errors"

var (
	ErrNotFound      = errors.New("constraint not found")
	ErrInvalidKind   = errors.New("constraint type must be min, max or percentage")
	ErrInvalidValue  = errors.New("constraint value cannot be negative")
	ErrValueTooLarge = errors.New("constraint value must be less than 1000000000000")
)
