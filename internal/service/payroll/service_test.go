package payroll

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
	"github.com/tallyworks/payroll-backend-go/internal/repository/postgresql"
)

var (
	svcTestDB   *database.DB
	svcTestOnce sync.Once
)

func requireServiceTestDB(t *testing.T) *database.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	svcTestOnce.Do(func() {
		var err error
		svcTestDB, err = database.NewPostgreSQLDB(dsn)
		if err != nil {
			panic("Failed to connect to test database: " + err.Error())
		}
	})
	return svcTestDB
}

func newTestPayrollService(db *database.DB) payroll.PayrollService {
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	ledger := NewCompTimeLedger(postgresql.NewCompTimeRepository(db), leaveRepo, employeeRepo)
	return NewPayrollService(
		db,
		employeeRepo,
		postgresql.NewTimeEntryRepository(db),
		leaveRepo,
		postgresql.NewSalaryItemRepository(db),
		postgresql.NewBusinessTripRepository(db),
		postgresql.NewSettingsRepository(db),
		postgresql.NewSnapshotRepository(db),
		ledger,
	)
}

func truncateServiceTables(t *testing.T, ctx context.Context) {
	tables := []string{
		"payroll_snapshots", "comp_time_conversions", "comp_time_consumptions",
		"comp_time_grants", "leave_requests", "salary_items", "business_trips",
		"time_entries", "settings", "employees",
	}
	for _, table := range tables {
		_, err := svcTestDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func seedEmployee(t *testing.T, ctx context.Context, baseSalaryCents int64) string {
	id := uuid.NewString()
	code := fmt.Sprintf("EMP-%d", time.Now().UnixNano())
	_, err := svcTestDB.Exec(ctx, `
		INSERT INTO employees (id, name, code, base_salary_cents, active, hired_at)
		VALUES ($1, 'Test Employee', $2, $3, true, '2024-01-01')
	`, id, code, baseSalaryCents)
	require.NoError(t, err)
	return id
}

func seedTimeEntry(t *testing.T, ctx context.Context, employeeID, day, workType string, hours float64) {
	_, err := svcTestDB.Exec(ctx, `
		INSERT INTO time_entries (id, employee_id, work_date, work_type, hours)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), employeeID, day, workType, hours)
	require.NoError(t, err)
}

func seedSalaryItem(t *testing.T, ctx context.Context, employeeID, category, name string, amountCents int64) {
	_, err := svcTestDB.Exec(ctx, `
		INSERT INTO salary_items (id, employee_id, category, name, amount_cents, recurrence, effective_date)
		VALUES ($1, $2, $3, $4, $5, 'monthly', '2024-01-01')
	`, uuid.NewString(), employeeID, category, name, amountCents)
	require.NoError(t, err)
}

func TestPayrollService_ComputeEndToEnd(t *testing.T) {
	db := requireServiceTestDB(t)
	ctx := context.Background()
	truncateServiceTables(t, ctx)

	svc := newTestPayrollService(db)
	employeeID := seedEmployee(t, ctx, 3000000)
	seedSalaryItem(t, ctx, employeeID, "regular_allowance", "Position allowance", 600000)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "regular", 8)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "overtime_first_2h", 2)

	got, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)

	assert.Equal(t, int64(3000000), got.BaseCents)
	assert.Equal(t, int64(600000), got.RegularAllowanceCents)
	// Hourly rate (3,000,000 + 600,000)/240 = 15,000; the unused 2h of
	// overtime convert at 1.34: 2 x 15,000 x 1.34.
	assert.Equal(t, int64(40200), got.OvertimeCents)
	assert.True(t, got.FullAttendance)
	assert.False(t, got.NeedsRecalc)
	assert.Equal(t, got.GrossCents-got.FixedDeductionCents-got.LeaveDeductionCents, got.NetCents)
}

func TestPayrollService_ComputeIdempotent(t *testing.T) {
	db := requireServiceTestDB(t)
	ctx := context.Background()
	truncateServiceTables(t, ctx)

	svc := newTestPayrollService(db)
	employeeID := seedEmployee(t, ctx, 3600000)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "regular", 8)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "overtime_first_2h", 2)
	seedTimeEntry(t, ctx, employeeID, "2025-11-08", "holiday_within_8h", 8)

	first, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	second, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)

	// Re-running with unchanged inputs converges: same amounts, no
	// duplicated conversions.
	assert.Equal(t, first.GrossCents, second.GrossCents)
	assert.Equal(t, first.NetCents, second.NetCents)
	assert.Equal(t, first.OvertimeCents, second.OvertimeCents)
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

func seedLeaveRequest(t *testing.T, ctx context.Context, employeeID, leaveType, day string, hours float64, status string) {
	_, err := svcTestDB.Exec(ctx, `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, unit, amount, status)
		VALUES ($1, $2, $3, $4, $4, 'hours', $5, $6)
	`, uuid.NewString(), employeeID, leaveType, day, hours, status)
	require.NoError(t, err)
}

func TestPayrollService_RecomputeConvergesAfterEntryEdit(t *testing.T) {
	db := requireServiceTestDB(t)
	ctx := context.Background()
	truncateServiceTables(t, ctx)

	svc := newTestPayrollService(db)
	employeeID := seedEmployee(t, ctx, 3600000)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "regular", 8)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "overtime_first_2h", 2)

	first, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, int64(40200), first.OvertimeCents)

	// The overtime entry is corrected upward after payroll already ran.
	// Recomputing must price the current 4 hours, not keep last run's
	// 2-hour conversion.
	_, err = svcTestDB.Exec(ctx, `
		UPDATE time_entries SET hours = 4 WHERE employee_id = $1 AND work_type = 'overtime_first_2h'
	`, employeeID)
	require.NoError(t, err)

	second, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, int64(80400), second.OvertimeCents)

	// Correcting downward converges too instead of overpaying.
	_, err = svcTestDB.Exec(ctx, `
		UPDATE time_entries SET hours = 1 WHERE employee_id = $1 AND work_type = 'overtime_first_2h'
	`, employeeID)
	require.NoError(t, err)

	third, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, int64(20100), third.OvertimeCents)
}

func TestPayrollService_CompLeaveApprovedAfterCompute(t *testing.T) {
	db := requireServiceTestDB(t)
	ctx := context.Background()
	truncateServiceTables(t, ctx)

	svc := newTestPayrollService(db)
	employeeID := seedEmployee(t, ctx, 3600000)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "regular", 8)
	seedTimeEntry(t, ctx, employeeID, "2025-11-03", "overtime_first_2h", 2)

	first, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, int64(40200), first.OvertimeCents)

	// Comp leave approved after the month was already converted to
	// cash: the recompute hands the hours back to the leave, so the
	// employee does not keep both the payout and the time off.
	seedLeaveRequest(t, ctx, employeeID, "compensatory", "2025-11-10", 2, "approved")

	second, err := svc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.OvertimeCents)
	// Compensatory leave never deducts pay.
	assert.Equal(t, int64(0), second.LeaveDeductionCents)
}

func TestPayrollService_GetCachedMissing(t *testing.T) {
	db := requireServiceTestDB(t)
	ctx := context.Background()
	truncateServiceTables(t, ctx)

	svc := newTestPayrollService(db)
	got, err := svc.GetCached(ctx, uuid.NewString(), "2025-11")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPayrollService_ComputeInvalidMonth(t *testing.T) {
	db := requireServiceTestDB(t)
	ctx := context.Background()

	svc := newTestPayrollService(db)
	_, err := svc.Compute(ctx, uuid.NewString(), "2025-13")
	assert.ErrorIs(t, err, payroll.ErrInvalidYearMonth)
}
