package timesheet

import (
	"context"
	"time"
)

type TimeEntryRepository interface {
	// GetByEmployeeMonth returns non-deleted entries for the employee
	// whose work date falls inside the given month, ordered by date.
	GetByEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]TimeEntry, error)
}
