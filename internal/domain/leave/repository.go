package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveRequestRepository interface {
	// GetOverlappingMonth returns pending and approved requests whose
	// date range touches the given month. Rejected requests are
	// filtered out at the store.
	GetOverlappingMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]Request, error)

	// GetApprovedCompensatory returns approved compensatory requests
	// overlapping the month, oldest first.
	GetApprovedCompensatory(ctx context.Context, employeeID string, year int, month time.Month) ([]Request, error)

	// MenstrualDaysBefore sums menstrual-leave days (pending+approved)
	// taken in the calendar year strictly before the given month.
	MenstrualDaysBefore(ctx context.Context, employeeID string, year int, month time.Month) (decimal.Decimal, error)
}
