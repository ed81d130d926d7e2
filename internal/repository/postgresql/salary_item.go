package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tallyworks/payroll-backend-go/internal/domain/salaryitem"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type salaryItemRepository struct {
	db *database.DB
}

func NewSalaryItemRepository(db *database.DB) salaryitem.SalaryItemRepository {
	return &salaryItemRepository{db: db}
}

const salaryItemColumns = `id, employee_id, category, name, amount_cents, recurrence,
	months_of_year, payment_month, year, effective_date, expiry_date, created_at, updated_at`

func (r *salaryItemRepository) GetByEmployee(ctx context.Context, employeeID string) ([]salaryitem.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM salary_items
		WHERE employee_id = $1
		ORDER BY category, name
	`, salaryItemColumns)

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary items: %w", err)
	}
	defer rows.Close()

	var items []salaryitem.Item
	for rows.Next() {
		var item salaryitem.Item
		if err := rows.Scan(
			&item.ID, &item.EmployeeID, &item.Category, &item.Name, &item.AmountCents,
			&item.Recurrence, &item.MonthsOfYear, &item.PaymentMonth, &item.Year,
			&item.EffectiveDate, &item.ExpiryDate, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *salaryItemRepository) GetPerformanceAdjustment(ctx context.Context, employeeID, yearMonth string) (*salaryitem.PerformanceAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year_month, amount_cents, created_at
		FROM performance_adjustments
		WHERE employee_id = $1 AND year_month = $2
	`

	var adj salaryitem.PerformanceAdjustment
	err := q.QueryRow(ctx, query, employeeID, yearMonth).Scan(
		&adj.ID, &adj.EmployeeID, &adj.YearMonth, &adj.AmountCents, &adj.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get performance adjustment: %w", err)
	}

	return &adj, nil
}

func (r *salaryItemRepository) ReplaceForEmployee(ctx context.Context, employeeID string, items []salaryitem.Item) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM salary_items WHERE employee_id = $1`, employeeID); err != nil {
			return fmt.Errorf("failed to delete salary items: %w", err)
		}

		query := `
			INSERT INTO salary_items (
				id, employee_id, category, name, amount_cents, recurrence,
				months_of_year, payment_month, year, effective_date, expiry_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		for _, item := range items {
			if _, err := q.Exec(txCtx, query,
				item.ID, employeeID, item.Category, item.Name, item.AmountCents, item.Recurrence,
				item.MonthsOfYear, item.PaymentMonth, item.Year, item.EffectiveDate, item.ExpiryDate,
			); err != nil {
				return fmt.Errorf("failed to insert salary item: %w", err)
			}
		}

		return nil
	})
}
