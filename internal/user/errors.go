package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrExists             = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("email, name and password are required")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)
