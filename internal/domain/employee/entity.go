package employee

import "time"

// Employee carries the payroll-relevant subset of the employee record.
type Employee struct {
	ID              string
	Name            string
	Code            *string
	BaseSalaryCents int64
	Active          bool
	HiredAt         time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
