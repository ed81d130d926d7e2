package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/comptime"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type compTimeRepository struct {
	db *database.DB
}

func NewCompTimeRepository(db *database.DB) comptime.CompTimeRepository {
	return &compTimeRepository{db: db}
}

const grantColumns = `id, employee_id, entry_date, work_type, multiplier, hours_generated,
	hours_remaining, grant_month, expiry_date, status, created_at, updated_at`

func (r *compTimeRepository) UpsertGrant(ctx context.Context, grant comptime.Grant) (comptime.Grant, error) {
	q := GetQuerier(ctx, r.db)

	// On resync the generated hours may shift (entry edits); the
	// remaining balance moves by the same delta so consumption that
	// already happened is preserved. A grant whose balance comes back
	// above zero is active again.
	query := fmt.Sprintf(`
		INSERT INTO comp_time_grants (
			id, employee_id, entry_date, work_type, multiplier,
			hours_generated, hours_remaining, grant_month, expiry_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id, entry_date, work_type) DO UPDATE SET
			multiplier = EXCLUDED.multiplier,
			hours_remaining = GREATEST(
				comp_time_grants.hours_remaining
					+ (EXCLUDED.hours_generated - comp_time_grants.hours_generated),
				0),
			hours_generated = EXCLUDED.hours_generated,
			grant_month = EXCLUDED.grant_month,
			expiry_date = EXCLUDED.expiry_date,
			status = CASE
				WHEN comp_time_grants.hours_remaining
					+ (EXCLUDED.hours_generated - comp_time_grants.hours_generated) > 0
				THEN 'active'
				ELSE comp_time_grants.status
			END,
			updated_at = NOW()
		RETURNING %s
	`, grantColumns)

	var g comptime.Grant
	err := q.QueryRow(ctx, query,
		grant.ID, grant.EmployeeID, grant.EntryDate, grant.WorkType, grant.Multiplier,
		grant.HoursGenerated, grant.HoursRemaining, grant.GrantMonth, grant.ExpiryDate, grant.Status,
	).Scan(
		&g.ID, &g.EmployeeID, &g.EntryDate, &g.WorkType, &g.Multiplier, &g.HoursGenerated,
		&g.HoursRemaining, &g.GrantMonth, &g.ExpiryDate, &g.Status, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return comptime.Grant{}, fmt.Errorf("failed to upsert comp time grant: %w", err)
	}

	return g, nil
}

func (r *compTimeRepository) GetActiveGrants(ctx context.Context, employeeID string) ([]comptime.Grant, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM comp_time_grants
		WHERE employee_id = $1 AND status = 'active' AND hours_remaining > 0
		ORDER BY entry_date
	`, grantColumns)

	return r.queryGrants(ctx, q, query, employeeID)
}

func (r *compTimeRepository) GetGrantsByMonth(ctx context.Context, employeeID, yearMonth string) ([]comptime.Grant, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM comp_time_grants
		WHERE employee_id = $1 AND grant_month = $2
		ORDER BY entry_date
	`, grantColumns)

	return r.queryGrants(ctx, q, query, employeeID, yearMonth)
}

func (r *compTimeRepository) GetExpiredActive(ctx context.Context, asOf time.Time) ([]comptime.Grant, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM comp_time_grants
		WHERE status = 'active' AND hours_remaining > 0 AND expiry_date < $1
		ORDER BY employee_id, entry_date
	`, grantColumns)

	return r.queryGrants(ctx, q, query, asOf)
}

func (r *compTimeRepository) DrainGrant(ctx context.Context, grantID string, hours decimal.Decimal, status comptime.GrantStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE comp_time_grants
		SET hours_remaining = GREATEST(hours_remaining - $2, 0),
			status = $3,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query, grantID, hours, status).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return comptime.ErrGrantNotFound
		}
		return fmt.Errorf("failed to drain comp time grant: %w", err)
	}

	return nil
}

func (r *compTimeRepository) HasConsumptionForRequest(ctx context.Context, leaveRequestID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM comp_time_consumptions WHERE leave_request_id = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, leaveRequestID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check consumption: %w", err)
	}
	return exists, nil
}

func (r *compTimeRepository) CreateConsumption(ctx context.Context, c comptime.Consumption) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO comp_time_consumptions (id, grant_id, leave_request_id, hours)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (grant_id, leave_request_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, c.ID, c.GrantID, c.LeaveRequestID, c.Hours); err != nil {
		return fmt.Errorf("failed to create consumption: %w", err)
	}
	return nil
}

func (r *compTimeRepository) CreateConversion(ctx context.Context, c comptime.Conversion) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO comp_time_conversions (
			id, grant_id, employee_id, year_month, hours, multiplier, amount_cents, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (grant_id, source) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		c.ID, c.GrantID, c.EmployeeID, c.YearMonth, c.Hours, c.Multiplier, c.AmountCents, c.Source,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create conversion: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *compTimeRepository) RevertMonthlyConversions(ctx context.Context, employeeID, yearMonth string) error {
	q := GetQuerier(ctx, r.db)

	// Credit the converted hours back first; the delete would lose the
	// amounts needed for the restore.
	restore := `
		UPDATE comp_time_grants g
		SET hours_remaining = g.hours_remaining + c.hours,
			status = 'active',
			updated_at = NOW()
		FROM comp_time_conversions c
		WHERE c.grant_id = g.id
		  AND c.employee_id = $1
		  AND c.year_month = $2
		  AND c.source = 'monthly'
	`
	if _, err := q.Exec(ctx, restore, employeeID, yearMonth); err != nil {
		return fmt.Errorf("failed to restore converted grants: %w", err)
	}

	del := `
		DELETE FROM comp_time_conversions
		WHERE employee_id = $1 AND year_month = $2 AND source = 'monthly'
	`
	if _, err := q.Exec(ctx, del, employeeID, yearMonth); err != nil {
		return fmt.Errorf("failed to delete monthly conversions: %w", err)
	}
	return nil
}

func (r *compTimeRepository) SumConversions(ctx context.Context, employeeID, yearMonth string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM comp_time_conversions
		WHERE employee_id = $1 AND year_month = $2
	`

	var total int64
	if err := q.QueryRow(ctx, query, employeeID, yearMonth).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum conversions: %w", err)
	}
	return total, nil
}

func (r *compTimeRepository) queryGrants(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]comptime.Grant, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comp time grants: %w", err)
	}
	defer rows.Close()

	var grants []comptime.Grant
	for rows.Next() {
		var g comptime.Grant
		if err := rows.Scan(
			&g.ID, &g.EmployeeID, &g.EntryDate, &g.WorkType, &g.Multiplier, &g.HoursGenerated,
			&g.HoursRemaining, &g.GrantMonth, &g.ExpiryDate, &g.Status, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comp time grant: %w", err)
		}
		grants = append(grants, g)
	}

	return grants, nil
}
