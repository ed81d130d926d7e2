package comptime

import "errors"

var (
	ErrGrantNotFound       = errors.New("compensatory grant not found")
	ErrInsufficientBalance = errors.New("insufficient compensatory balance")
)
