package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tallyworks/payroll-backend-go/internal/domain/trip"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type businessTripRepository struct {
	db *database.DB
}

func NewBusinessTripRepository(db *database.DB) trip.BusinessTripRepository {
	return &businessTripRepository{db: db}
}

func (r *businessTripRepository) GetApprovedByMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]trip.BusinessTrip, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT id, employee_id, trip_date, distance_km, status, created_at, updated_at
		FROM business_trips
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND trip_date >= $2 AND trip_date < $3
		ORDER BY trip_date
	`

	rows, err := q.Query(ctx, query, employeeID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list business trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.BusinessTrip
	for rows.Next() {
		var t trip.BusinessTrip
		if err := rows.Scan(
			&t.ID, &t.EmployeeID, &t.TripDate, &t.DistanceKm, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan business trip: %w", err)
		}
		trips = append(trips, t)
	}

	return trips, nil
}
