package user

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrActorRequired           = errors.New("authenticated actor required")
	ErrInvalidRole             = errors.New("role must be one of admin, rh, manager, employee")
)
