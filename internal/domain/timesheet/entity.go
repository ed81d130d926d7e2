package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is one logged block of work. Hours run 0-12 in half-hour
// steps. Entries are soft-deleted; a deleted entry never reaches the
// payroll engines.
type TimeEntry struct {
	ID         string
	EmployeeID string
	WorkDate   time.Time
	WorkType   WorkTypeCode
	Hours      decimal.Decimal
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
