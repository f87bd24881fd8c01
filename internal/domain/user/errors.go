package user

import "errors"

var (
	ErrUnknownRole             = errors.New("unknown role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrMissingIdentity         = errors.New("missing user identity in token")
)
