package model

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrInvalidState   = errors.New("invalid state")
	ErrBudgetExceeded = errors.New("budget exceeded")
)
