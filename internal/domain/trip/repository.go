package trip

import (
	"context"
	"time"
)

type BusinessTripRepository interface {
	// GetApprovedByMonth returns approved trips in the month.
	GetApprovedByMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]BusinessTrip, error)
}
