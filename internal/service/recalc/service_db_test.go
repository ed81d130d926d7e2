package recalc

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
	payrollService "github.com/tallyworks/payroll-backend-go/internal/service/payroll"
)

var (
	recalcTestDB   *database.DB
	recalcTestOnce sync.Once
)

func requireRecalcTestDB(t *testing.T) *database.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	recalcTestOnce.Do(func() {
		var err error
		recalcTestDB, err = database.NewPostgreSQLDB(dsn)
		if err != nil {
			panic("Failed to connect to test database: " + err.Error())
		}
	})
	return recalcTestDB
}

func newTestStack(db *database.DB) (payroll.PayrollService, payroll.RecalcService) {
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	snapshotRepo := postgresql.NewSnapshotRepository(db)
	ledger := payrollService.NewCompTimeLedger(postgresql.NewCompTimeRepository(db), leaveRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		employeeRepo,
		postgresql.NewTimeEntryRepository(db),
		leaveRepo,
		postgresql.NewSalaryItemRepository(db),
		postgresql.NewBusinessTripRepository(db),
		postgresql.NewSettingsRepository(db),
		snapshotRepo,
		ledger,
	)
	recalcSvc := NewRecalcService(postgresql.NewRecalcTaskRepository(db), snapshotRepo, payrollSvc, 15*time.Minute)
	return payrollSvc, recalcSvc
}

func truncateRecalcTables(t *testing.T, ctx context.Context) {
	tables := []string{
		"recalc_tasks", "payroll_snapshots", "comp_time_conversions",
		"comp_time_consumptions", "comp_time_grants", "time_entries", "employees",
	}
	for _, table := range tables {
		_, err := recalcTestDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func seedRecalcEmployee(t *testing.T, ctx context.Context) string {
	id := uuid.NewString()
	code := fmt.Sprintf("EMP-%d", time.Now().UnixNano())
	_, err := recalcTestDB.Exec(ctx, `
		INSERT INTO employees (id, name, code, base_salary_cents, active, hired_at)
		VALUES ($1, 'Test Employee', $2, 3600000, true, '2024-01-01')
	`, id, code)
	require.NoError(t, err)
	return id
}

func TestRecalcService_EnqueueProcessConverges(t *testing.T) {
	db := requireRecalcTestDB(t)
	ctx := context.Background()
	truncateRecalcTables(t, ctx)

	payrollSvc, recalcSvc := newTestStack(db)
	employeeID := seedRecalcEmployee(t, ctx)
	_, err := recalcTestDB.Exec(ctx, `
		INSERT INTO time_entries (id, employee_id, work_date, work_type, hours)
		VALUES ($1, $2, '2025-11-03', 'regular', 8)
	`, uuid.NewString(), employeeID)
	require.NoError(t, err)

	workDate, _ := time.Parse("2006-01-02", "2025-11-03")
	require.NoError(t, recalcSvc.Enqueue(ctx, employeeID, workDate, "", "time entry changed"))
	// Repeat enqueues coalesce into one task.
	require.NoError(t, recalcSvc.Enqueue(ctx, employeeID, workDate, "", "leave approved"))

	outcomes, err := recalcSvc.Process(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success)

	// The task is gone and the snapshot is current.
	outcomes, err = recalcSvc.Process(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, outcomes)

	snapshot, err := payrollSvc.GetCached(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.False(t, snapshot.NeedsRecalc)
	assert.Equal(t, int64(3600000), snapshot.BaseCents)
}

func TestRecalcService_FailedTaskKeepsStaleSnapshot(t *testing.T) {
	db := requireRecalcTestDB(t)
	ctx := context.Background()
	truncateRecalcTables(t, ctx)

	payrollSvc, recalcSvc := newTestStack(db)
	employeeID := seedRecalcEmployee(t, ctx)

	// Compute once so a snapshot exists, then break the input by
	// deactivating the employee record out from under the queue.
	_, err := payrollSvc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	_, err = recalcTestDB.Exec(ctx, `UPDATE employees SET active = false WHERE id = $1`, employeeID)
	require.NoError(t, err)

	workDate, _ := time.Parse("2006-01-02", "2025-11-03")
	require.NoError(t, recalcSvc.Enqueue(ctx, employeeID, workDate, "", "time entry changed"))

	outcomes, err := recalcSvc.Process(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Success)
	assert.NotEmpty(t, outcomes[0].Error)

	// The errored task stays due for a later retry and the cached
	// amounts stay readable under the stale-with-error flags.
	taskRepo := postgresql.NewRecalcTaskRepository(db)
	due, err := taskRepo.ListDue(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, payroll.TaskError, due[0].Status)

	snapshot, err := postgresql.NewSnapshotRepository(db).Get(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.True(t, snapshot.NeedsRecalc)
	require.NotNil(t, snapshot.LastError)
	assert.Equal(t, int64(3600000), snapshot.BaseCents)
}

func TestRecalcService_OvertimeKindPatchesSnapshot(t *testing.T) {
	db := requireRecalcTestDB(t)
	ctx := context.Background()
	truncateRecalcTables(t, ctx)

	payrollSvc, recalcSvc := newTestStack(db)
	employeeID := seedRecalcEmployee(t, ctx)
	_, err := recalcTestDB.Exec(ctx, `
		INSERT INTO time_entries (id, employee_id, work_date, work_type, hours)
		VALUES ($1, $2, '2025-11-03', 'regular', 8)
	`, uuid.NewString(), employeeID)
	require.NoError(t, err)

	_, err = payrollSvc.Compute(ctx, employeeID, "2025-11")
	require.NoError(t, err)

	// New overtime lands as a kind-scoped task; processing it patches
	// the overtime line without a full recompute.
	_, err = recalcTestDB.Exec(ctx, `
		INSERT INTO time_entries (id, employee_id, work_date, work_type, hours)
		VALUES ($1, $2, '2025-11-03', 'overtime_first_2h', 2)
	`, uuid.NewString(), employeeID)
	require.NoError(t, err)

	workDate, _ := time.Parse("2006-01-02", "2025-11-03")
	require.NoError(t, recalcSvc.Enqueue(ctx, employeeID, workDate, payroll.ChangeOvertime, "time entry changed"))

	outcomes, err := recalcSvc.Process(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success)

	snapshot, err := payrollSvc.GetCached(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	// Hourly rate 3,600,000/240 = 15,000; 2h x 15,000 x 1.34.
	assert.Equal(t, int64(40200), snapshot.OvertimeCents)
	assert.False(t, snapshot.NeedsRecalc)
	assert.Equal(t, snapshot.GrossCents-snapshot.FixedDeductionCents-snapshot.LeaveDeductionCents, snapshot.NetCents)
}

func TestRecalcService_Clear(t *testing.T) {
	db := requireRecalcTestDB(t)
	ctx := context.Background()
	truncateRecalcTables(t, ctx)

	_, recalcSvc := newTestStack(db)
	employeeID := seedRecalcEmployee(t, ctx)

	workDate, _ := time.Parse("2006-01-02", "2025-11-03")
	require.NoError(t, recalcSvc.Enqueue(ctx, employeeID, workDate, "", "r"))
	require.NoError(t, recalcSvc.Clear(ctx, employeeID, "2025-11"))

	taskRepo := postgresql.NewRecalcTaskRepository(db)
	due, err := taskRepo.ListDue(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Clearing a never-enqueued pair is a no-op, not an error.
	require.NoError(t, recalcSvc.Clear(ctx, employeeID, "2025-10"))
}
