package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `id, employee_id, leave_type, start_date, end_date, unit, amount, status, created_at, updated_at`

func (r *leaveRequestRepository) GetOverlappingMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests
		WHERE employee_id = $1
		  AND status IN ('pending', 'approved')
		  AND start_date < $3 AND end_date >= $2
		ORDER BY start_date
	`, leaveRequestColumns)

	return r.queryRequests(ctx, q, query, employeeID, monthStart, monthEnd)
}

func (r *leaveRequestRepository) GetApprovedCompensatory(ctx context.Context, employeeID string, year int, month time.Month) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests
		WHERE employee_id = $1
		  AND leave_type = 'compensatory'
		  AND status = 'approved'
		  AND start_date < $3 AND end_date >= $2
		ORDER BY start_date
	`, leaveRequestColumns)

	return r.queryRequests(ctx, q, query, employeeID, monthStart, monthEnd)
}

func (r *leaveRequestRepository) MenstrualDaysBefore(ctx context.Context, employeeID string, year int, month time.Month) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	// Day-unit requests carry their amount in days; hour-unit ones
	// divide by the 8-hour day.
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN unit = 'day' THEN amount ELSE amount / 8.0 END
		), 0)
		FROM leave_requests
		WHERE employee_id = $1
		  AND leave_type = 'menstrual'
		  AND status IN ('pending', 'approved')
		  AND start_date >= $2 AND start_date < $3
	`

	var days decimal.Decimal
	err := q.QueryRow(ctx, query, employeeID, yearStart, monthStart).Scan(&days)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum menstrual days: %w", err)
	}
	return days, nil
}

func (r *leaveRequestRepository) queryRequests(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]leave.Request, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Type, &req.StartDate, &req.EndDate,
			&req.Unit, &req.Amount, &req.Status, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}
