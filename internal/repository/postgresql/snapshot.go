package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
)

type snapshotRepository struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) payroll.SnapshotRepository {
	return &snapshotRepository{db: db}
}

const snapshotColumns = `id, employee_id, year_month, base_cents, regular_allowance_cents,
	irregular_allowance_cents, regular_bonus_cents, attendance_bonus_cents,
	performance_bonus_cents, year_end_bonus_cents, overtime_cents, meal_allowance_cents,
	transport_allowance_cents, fixed_deduction_cents, leave_deduction_cents,
	gross_cents, net_cents, total_hours, weighted_hours, standard_hours,
	full_attendance, breakdown, needs_recalc, last_error, computed_at, created_at, updated_at`

func (r *snapshotRepository) Upsert(ctx context.Context, s payroll.Snapshot) (payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return payroll.Snapshot{}, fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO payroll_snapshots (
			id, employee_id, year_month, base_cents, regular_allowance_cents,
			irregular_allowance_cents, regular_bonus_cents, attendance_bonus_cents,
			performance_bonus_cents, year_end_bonus_cents, overtime_cents, meal_allowance_cents,
			transport_allowance_cents, fixed_deduction_cents, leave_deduction_cents,
			gross_cents, net_cents, total_hours, weighted_hours, standard_hours,
			full_attendance, breakdown, needs_recalc, last_error, computed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
		ON CONFLICT (employee_id, year_month) DO UPDATE SET
			base_cents = EXCLUDED.base_cents,
			regular_allowance_cents = EXCLUDED.regular_allowance_cents,
			irregular_allowance_cents = EXCLUDED.irregular_allowance_cents,
			regular_bonus_cents = EXCLUDED.regular_bonus_cents,
			attendance_bonus_cents = EXCLUDED.attendance_bonus_cents,
			performance_bonus_cents = EXCLUDED.performance_bonus_cents,
			year_end_bonus_cents = EXCLUDED.year_end_bonus_cents,
			overtime_cents = EXCLUDED.overtime_cents,
			meal_allowance_cents = EXCLUDED.meal_allowance_cents,
			transport_allowance_cents = EXCLUDED.transport_allowance_cents,
			fixed_deduction_cents = EXCLUDED.fixed_deduction_cents,
			leave_deduction_cents = EXCLUDED.leave_deduction_cents,
			gross_cents = EXCLUDED.gross_cents,
			net_cents = EXCLUDED.net_cents,
			total_hours = EXCLUDED.total_hours,
			weighted_hours = EXCLUDED.weighted_hours,
			standard_hours = EXCLUDED.standard_hours,
			full_attendance = EXCLUDED.full_attendance,
			breakdown = EXCLUDED.breakdown,
			needs_recalc = EXCLUDED.needs_recalc,
			last_error = EXCLUDED.last_error,
			computed_at = EXCLUDED.computed_at,
			updated_at = NOW()
		RETURNING %s
	`, snapshotColumns)

	row := q.QueryRow(ctx, query,
		s.ID, s.EmployeeID, s.YearMonth, s.BaseCents, s.RegularAllowanceCents,
		s.IrregularAllowanceCents, s.RegularBonusCents, s.AttendanceBonusCents,
		s.PerformanceBonusCents, s.YearEndBonusCents, s.OvertimeCents, s.MealAllowanceCents,
		s.TransportAllowanceCents, s.FixedDeductionCents, s.LeaveDeductionCents,
		s.GrossCents, s.NetCents, s.TotalHours, s.WeightedHours, s.StandardHours,
		s.FullAttendance, breakdown, s.NeedsRecalc, s.LastError, s.ComputedAt,
	)

	saved, err := scanSnapshot(row)
	if err != nil {
		return payroll.Snapshot{}, fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return saved, nil
}

func (r *snapshotRepository) Get(ctx context.Context, employeeID, yearMonth string) (payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_snapshots
		WHERE employee_id = $1 AND year_month = $2
	`, snapshotColumns)

	s, err := scanSnapshot(q.QueryRow(ctx, query, employeeID, yearMonth))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Snapshot{}, payroll.ErrSnapshotNotFound
		}
		return payroll.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return s, nil
}

func (r *snapshotRepository) SetError(ctx context.Context, employeeID, yearMonth, message string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_snapshots
		SET needs_recalc = true, last_error = $3, updated_at = NOW()
		WHERE employee_id = $1 AND year_month = $2
	`

	if _, err := q.Exec(ctx, query, employeeID, yearMonth, message); err != nil {
		return fmt.Errorf("failed to set snapshot error: %w", err)
	}
	return nil
}

func (r *snapshotRepository) MarkNeedsRecalc(ctx context.Context, employeeID, yearMonth string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_snapshots
		SET needs_recalc = true, updated_at = NOW()
		WHERE employee_id = $1 AND year_month = $2
		RETURNING id
	`

	var id string
	if err := q.QueryRow(ctx, query, employeeID, yearMonth).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrSnapshotNotFound
		}
		return fmt.Errorf("failed to mark snapshot for recalc: %w", err)
	}
	return nil
}

func (r *snapshotRepository) ClearFlags(ctx context.Context, employeeID, yearMonth string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_snapshots
		SET needs_recalc = false, last_error = NULL, updated_at = NOW()
		WHERE employee_id = $1 AND year_month = $2
	`

	if _, err := q.Exec(ctx, query, employeeID, yearMonth); err != nil {
		return fmt.Errorf("failed to clear snapshot flags: %w", err)
	}
	return nil
}

func scanSnapshot(row pgx.Row) (payroll.Snapshot, error) {
	var s payroll.Snapshot
	var breakdown []byte

	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.YearMonth, &s.BaseCents, &s.RegularAllowanceCents,
		&s.IrregularAllowanceCents, &s.RegularBonusCents, &s.AttendanceBonusCents,
		&s.PerformanceBonusCents, &s.YearEndBonusCents, &s.OvertimeCents, &s.MealAllowanceCents,
		&s.TransportAllowanceCents, &s.FixedDeductionCents, &s.LeaveDeductionCents,
		&s.GrossCents, &s.NetCents, &s.TotalHours, &s.WeightedHours, &s.StandardHours,
		&s.FullAttendance, &breakdown, &s.NeedsRecalc, &s.LastError, &s.ComputedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.Snapshot{}, err
	}

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &s.Breakdown); err != nil {
			return payroll.Snapshot{}, fmt.Errorf("failed to unmarshal breakdown: %w", err)
		}
	}

	return s, nil
}
