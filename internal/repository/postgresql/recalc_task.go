package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type recalcTaskRepository struct {
	db *database.DB
}

func NewRecalcTaskRepository(db *database.DB) payroll.RecalcTaskRepository {
	return &recalcTaskRepository{db: db}
}

const recalcTaskColumns = `id, employee_id, year_month, reason, kind, status, attempts, last_error, created_at, updated_at`

func (r *recalcTaskRepository) Upsert(ctx context.Context, task payroll.RecalcTask) (payroll.RecalcTask, error) {
	q := GetQuerier(ctx, r.db)

	// A task already claimed by a worker keeps its processing status;
	// anything else drops back to pending so the new reason gets a run.
	// Coalescing enqueues of differing kinds widens the task to a full
	// recompute (empty kind).
	query := fmt.Sprintf(`
		INSERT INTO recalc_tasks (id, employee_id, year_month, reason, kind, status, attempts)
		VALUES ($1, $2, $3, $4, $5, 'pending', 0)
		ON CONFLICT (employee_id, year_month) DO UPDATE SET
			reason = EXCLUDED.reason,
			kind = CASE
				WHEN recalc_tasks.kind = EXCLUDED.kind THEN recalc_tasks.kind
				ELSE ''
			END,
			status = CASE
				WHEN recalc_tasks.status = 'processing' THEN recalc_tasks.status
				ELSE 'pending'
			END,
			updated_at = NOW()
		RETURNING %s
	`, recalcTaskColumns)

	var t payroll.RecalcTask
	err := q.QueryRow(ctx, query, task.ID, task.EmployeeID, task.YearMonth, task.Reason, task.Kind).Scan(
		&t.ID, &t.EmployeeID, &t.YearMonth, &t.Reason, &t.Kind, &t.Status, &t.Attempts,
		&t.LastError, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return payroll.RecalcTask{}, fmt.Errorf("failed to upsert recalc task: %w", err)
	}

	return t, nil
}

func (r *recalcTaskRepository) ListDue(ctx context.Context, yearMonth *string, limit int) ([]payroll.RecalcTask, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM recalc_tasks
		WHERE status IN ('pending', 'error')
		  AND ($1::text IS NULL OR year_month = $1)
		ORDER BY updated_at
		LIMIT $2
	`, recalcTaskColumns)

	rows, err := q.Query(ctx, query, yearMonth, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recalc tasks: %w", err)
	}
	defer rows.Close()

	var tasks []payroll.RecalcTask
	for rows.Next() {
		var t payroll.RecalcTask
		if err := rows.Scan(
			&t.ID, &t.EmployeeID, &t.YearMonth, &t.Reason, &t.Kind, &t.Status, &t.Attempts,
			&t.LastError, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recalc task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (r *recalcTaskRepository) MarkProcessing(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE recalc_tasks
		SET status = 'processing', attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var taskID string
	if err := q.QueryRow(ctx, query, id).Scan(&taskID); err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrTaskNotFound
		}
		return fmt.Errorf("failed to mark task processing: %w", err)
	}
	return nil
}

func (r *recalcTaskRepository) MarkError(ctx context.Context, id, message string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE recalc_tasks
		SET status = 'error', last_error = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := q.Exec(ctx, query, id, message); err != nil {
		return fmt.Errorf("failed to mark task error: %w", err)
	}
	return nil
}

func (r *recalcTaskRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM recalc_tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete recalc task: %w", err)
	}
	return nil
}

func (r *recalcTaskRepository) DeleteByKey(ctx context.Context, employeeID, yearMonth string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM recalc_tasks WHERE employee_id = $1 AND year_month = $2`
	if _, err := q.Exec(ctx, query, employeeID, yearMonth); err != nil {
		return fmt.Errorf("failed to delete recalc task: %w", err)
	}
	return nil
}

func (r *recalcTaskRepository) DemoteStale(ctx context.Context, olderThan time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE recalc_tasks
		SET status = 'pending', updated_at = NOW()
		WHERE status = 'processing' AND updated_at < $1
	`

	tag, err := q.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to demote stale tasks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
