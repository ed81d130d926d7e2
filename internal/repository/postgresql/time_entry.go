package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tallyworks/payroll-backend-go/internal/domain/timesheet"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timesheet.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) GetByEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT id, employee_id, work_date, work_type, hours, deleted_at, created_at, updated_at
		FROM time_entries
		WHERE employee_id = $1
		  AND work_date >= $2 AND work_date < $3
		  AND deleted_at IS NULL
		ORDER BY work_date, work_type
	`

	rows, err := q.Query(ctx, query, employeeID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	for rows.Next() {
		var e timesheet.TimeEntry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.WorkDate, &e.WorkType, &e.Hours, &e.DeletedAt, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
