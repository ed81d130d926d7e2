package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/repository/postgresql"
)

func testSnapshot(employeeID string, netCents int64) payroll.Snapshot {
	return payroll.Snapshot{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		YearMonth:     "2025-11",
		BaseCents:     3600000,
		GrossCents:    netCents,
		NetCents:      netCents,
		TotalHours:    decimal.NewFromInt(160),
		WeightedHours: decimal.NewFromInt(160),
		StandardHours: decimal.NewFromInt(160),
		Breakdown: []payroll.LineItem{
			{Code: "base", Name: "Base salary", AmountCents: 3600000},
		},
		ComputedAt: time.Now().UTC(),
	}
}

func TestSnapshotRepository_UpsertOverwrites(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	truncateTables(t, ctx, "payroll_snapshots", "employees")

	repo := postgresql.NewSnapshotRepository(testDB)
	employeeID := createTestEmployee(t, ctx, 3600000)

	first, err := repo.Upsert(ctx, testSnapshot(employeeID, 3600000))
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, testSnapshot(employeeID, 3700000))
	require.NoError(t, err)

	// One row per (employee, month); amounts replaced wholesale.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(3700000), second.NetCents)

	got, err := repo.Get(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, int64(3700000), got.NetCents)
	require.Len(t, got.Breakdown, 1)
	assert.Equal(t, "base", got.Breakdown[0].Code)
}

func TestSnapshotRepository_GetMissing(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	truncateTables(t, ctx, "payroll_snapshots")

	repo := postgresql.NewSnapshotRepository(testDB)
	_, err := repo.Get(ctx, uuid.NewString(), "2025-11")
	assert.ErrorIs(t, err, payroll.ErrSnapshotNotFound)
}

func TestSnapshotRepository_Flags(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	truncateTables(t, ctx, "payroll_snapshots", "employees")

	repo := postgresql.NewSnapshotRepository(testDB)
	employeeID := createTestEmployee(t, ctx, 3600000)

	_, err := repo.Upsert(ctx, testSnapshot(employeeID, 3600000))
	require.NoError(t, err)

	// Stale-with-error keeps the cached amounts readable.
	require.NoError(t, repo.SetError(ctx, employeeID, "2025-11", "boom"))
	got, err := repo.Get(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.True(t, got.NeedsRecalc)
	require.NotNil(t, got.LastError)
	assert.Equal(t, "boom", *got.LastError)
	assert.Equal(t, int64(3600000), got.NetCents)

	require.NoError(t, repo.ClearFlags(ctx, employeeID, "2025-11"))
	got, err = repo.Get(ctx, employeeID, "2025-11")
	require.NoError(t, err)
	assert.False(t, got.NeedsRecalc)
	assert.Nil(t, got.LastError)
}

func TestSnapshotRepository_MarkNeedsRecalcMissing(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	truncateTables(t, ctx, "payroll_snapshots")

	repo := postgresql.NewSnapshotRepository(testDB)
	err := repo.MarkNeedsRecalc(ctx, uuid.NewString(), "2025-11")
	assert.ErrorIs(t, err, payroll.ErrSnapshotNotFound)
}
