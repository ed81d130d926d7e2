package comptime

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/timesheet"
)

type GrantStatus string

const (
	GrantActive   GrantStatus = "active"
	GrantConsumed GrantStatus = "consumed"
	GrantExpired  GrantStatus = "expired"
)

// Grant is one row of the compensatory-time ledger: overtime worked on
// one day under one work-type code. Consumption and cash conversion
// both drain HoursRemaining on this row, so the ledger is the single
// source of truth for unused comp time.
type Grant struct {
	ID             string
	EmployeeID     string
	EntryDate      time.Time
	WorkType       timesheet.WorkTypeCode
	Multiplier     decimal.Decimal
	HoursGenerated decimal.Decimal
	HoursRemaining decimal.Decimal
	GrantMonth     string // "2006-01", the payroll month that generated it
	ExpiryDate     time.Time
	Status         GrantStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Consumption records comp leave drawn against a grant. The unique
// (grant, leave request) pair makes applying an approval idempotent.
type Consumption struct {
	ID             string
	GrantID        string
	LeaveRequestID string
	Hours          decimal.Decimal
	CreatedAt      time.Time
}

type ConversionSource string

const (
	// SourceMonthly: unused hours of the grant month monetized into
	// that month's payroll.
	SourceMonthly ConversionSource = "monthly"
	// SourceExpiry: remaining balance converted by the scheduled
	// expiry job after the grant's expiry date passed.
	SourceExpiry ConversionSource = "expiry"
)

// Conversion is a cash payout of unused comp time. A grant can be
// converted at most once per source; payroll sums the conversions of
// its month into overtime cash.
type Conversion struct {
	ID          string
	GrantID     string
	EmployeeID  string
	YearMonth   string
	Hours       decimal.Decimal
	Multiplier  decimal.Decimal
	AmountCents int64
	Source      ConversionSource
	CreatedAt   time.Time
}
