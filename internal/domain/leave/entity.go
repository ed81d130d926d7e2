package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestType string

const (
	TypeSick         RequestType = "sick"
	TypePersonal     RequestType = "personal"
	TypeMenstrual    RequestType = "menstrual"
	TypeCompensatory RequestType = "compensatory"
	TypeAnnual       RequestType = "annual"
)

type Unit string

const (
	UnitDay   Unit = "day"
	UnitHours Unit = "hours"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a leave request. Hour-unit requests are single-date;
// day-unit requests may span a date range.
type Request struct {
	ID         string
	EmployeeID string
	Type       RequestType
	StartDate  time.Time
	EndDate    time.Time
	Unit       Unit
	Amount     decimal.Decimal // days or hours, per Unit
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

var hoursPerDay = decimal.NewFromInt(8)

// DeductionBearing reports whether the request's type can produce a
// salary deduction.
func (r Request) DeductionBearing() bool {
	switch r.Type {
	case TypeSick, TypePersonal, TypeMenstrual:
		return true
	}
	return false
}

// Countable reports whether the request participates in payroll at all:
// rejected requests are ignored everywhere, pending and approved both
// deduct and both break full attendance.
func (r Request) Countable() bool {
	return r.Status == StatusApproved || r.Status == StatusPending
}

// HoursInMonth converts the slice of the request that falls inside the
// given month to hours. Day-unit ranges count 8 hours per overlapping
// calendar day; a single-date request contributes its full amount when
// the date is in the month.
func (r Request) HoursInMonth(year int, month time.Month) decimal.Decimal {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	if r.StartDate.Equal(r.EndDate) || r.EndDate.Before(r.StartDate) {
		if r.StartDate.Before(monthStart) || !r.StartDate.Before(monthEnd) {
			return decimal.Zero
		}
		if r.Unit == UnitHours {
			return r.Amount
		}
		return r.Amount.Mul(hoursPerDay)
	}

	overlapStart := r.StartDate
	if overlapStart.Before(monthStart) {
		overlapStart = monthStart
	}
	overlapEnd := r.EndDate
	if !overlapEnd.Before(monthEnd) {
		overlapEnd = monthEnd.AddDate(0, 0, -1)
	}
	if overlapEnd.Before(overlapStart) {
		return decimal.Zero
	}
	days := int(overlapEnd.Sub(overlapStart).Hours()/24) + 1
	if r.Unit == UnitHours {
		// Hour-unit requests are single-date by construction; a range
		// with hour unit is treated as hours spread one day at a time.
		return r.Amount
	}
	return decimal.NewFromInt(int64(days)).Mul(hoursPerDay)
}

// DaysInMonth is HoursInMonth expressed in 8-hour days.
func (r Request) DaysInMonth(year int, month time.Month) decimal.Decimal {
	return r.HoursInMonth(year, month).Div(hoursPerDay)
}
