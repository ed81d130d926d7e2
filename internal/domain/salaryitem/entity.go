package salaryitem

import "time"

// Category is an explicit tag on every salary item. Classification by
// name matching is not supported; migrations must set the category.
type Category string

const (
	CategoryRegularAllowance   Category = "regular_allowance"
	CategoryIrregularAllowance Category = "irregular_allowance"
	CategoryRegularBonus       Category = "regular_bonus"
	CategoryFullAttendanceBonus Category = "full_attendance_bonus"
	CategoryPerformanceBonus   Category = "performance_bonus"
	CategoryYearEndBonus       Category = "year_end_bonus"
	CategoryDeduction          Category = "deduction"
)

type Recurrence string

const (
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceOnce    Recurrence = "once"
	RecurrenceYearly  Recurrence = "yearly"
)

// Item is one configured salary component for an employee. Read-only
// to the payroll engines; administrators own the records.
type Item struct {
	ID           string
	EmployeeID   string
	Category     Category
	Name         string
	AmountCents  int64
	Recurrence   Recurrence
	MonthsOfYear []int // yearly recurrence: month numbers that pay
	PaymentMonth *int  // year-end bonus: the month it pays out
	Year         *int  // year-end bonus: the year it belongs to
	EffectiveDate time.Time
	ExpiryDate   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PerformanceAdjustment is an explicit per-month override of the
// employee's configured performance bonus. When present it wins over
// the default item amount.
type PerformanceAdjustment struct {
	ID          string
	EmployeeID  string
	YearMonth   string
	AmountCents int64
	CreatedAt   time.Time
}
