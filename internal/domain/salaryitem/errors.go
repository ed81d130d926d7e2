package salaryitem

import "errors"

var (
	ErrItemNotFound      = errors.New("salary item not found")
	ErrInvalidRecurrence = errors.New("invalid salary item recurrence configuration")
)
