package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid employee id or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrWrongOldPassword   = errors.New("old password is incorrect")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
