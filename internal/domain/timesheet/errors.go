package timesheet

import "errors"

var (
	ErrTimeEntryNotFound = errors.New("time entry not found")
	ErrInvalidHours      = errors.New("hours must be between 0 and 12 in 0.5 steps")
)
