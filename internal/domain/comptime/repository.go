package comptime

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CompTimeRepository interface {
	// UpsertGrant inserts or refreshes a grant keyed by
	// (employee, entry date, work type). On conflict the generated
	// hours are updated and the remaining balance is shifted by the
	// same delta, so consumption already recorded survives a resync.
	UpsertGrant(ctx context.Context, grant Grant) (Grant, error)

	// GetActiveGrants returns grants with remaining balance, oldest
	// entry date first (FIFO order).
	GetActiveGrants(ctx context.Context, employeeID string) ([]Grant, error)

	// GetGrantsByMonth returns all grants generated for the month.
	GetGrantsByMonth(ctx context.Context, employeeID, yearMonth string) ([]Grant, error)

	// GetExpiredActive returns grants past expiry that still carry a
	// balance, across all employees.
	GetExpiredActive(ctx context.Context, asOf time.Time) ([]Grant, error)

	// DrainGrant subtracts hours from a grant's remaining balance and
	// sets the status when the balance reaches zero.
	DrainGrant(ctx context.Context, grantID string, hours decimal.Decimal, status GrantStatus) error

	// HasConsumptionForRequest reports whether a leave request was
	// already applied to the ledger.
	HasConsumptionForRequest(ctx context.Context, leaveRequestID string) (bool, error)

	CreateConsumption(ctx context.Context, c Consumption) error

	// CreateConversion inserts a conversion; returns false without
	// error when the (grant, source) pair already exists.
	CreateConversion(ctx context.Context, c Conversion) (bool, error)

	// RevertMonthlyConversions deletes the month's monthly-source
	// conversions and credits the converted hours back onto their
	// grants, so the month can be converted again from current state.
	// Expiry conversions are left alone.
	RevertMonthlyConversions(ctx context.Context, employeeID, yearMonth string) error

	// SumConversions totals conversion payouts for a payroll month.
	SumConversions(ctx context.Context, employeeID, yearMonth string) (int64, error)
}
