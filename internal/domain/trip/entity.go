package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// BusinessTrip is one approved trip; transport allowance pays per
// started distance interval.
type BusinessTrip struct {
	ID         string
	EmployeeID string
	TripDate   time.Time
	DistanceKm decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
