package paycode

import "errors"

var (
	ErrPayCodeNotFound   = errors.New("pay code not found")
	ErrPayCodeCodeExists = errors.New("pay code with this code already exists")
	ErrPayCodeInUse      = errors.New("pay code is used by time entries, deactivate it instead")
)
