package payroll

import "errors"

var (
	ErrSnapshotNotFound  = errors.New("payroll snapshot not found")
	ErrTaskNotFound      = errors.New("recalculation task not found")
	ErrInvalidYearMonth  = errors.New("year month must be formatted as YYYY-MM")
	ErrEmployeeNotActive = errors.New("employee is not active for payroll")
)
