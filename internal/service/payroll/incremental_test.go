package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/domain/trip"
)

type fakeSnapshotRepo struct {
	snapshot payroll.Snapshot
	upserted *payroll.Snapshot
}

func (f *fakeSnapshotRepo) Upsert(_ context.Context, s payroll.Snapshot) (payroll.Snapshot, error) {
	f.upserted = &s
	return s, nil
}

func (f *fakeSnapshotRepo) Get(context.Context, string, string) (payroll.Snapshot, error) {
	return f.snapshot, nil
}

func (f *fakeSnapshotRepo) SetError(context.Context, string, string, string) error { return nil }

func (f *fakeSnapshotRepo) MarkNeedsRecalc(context.Context, string, string) error { return nil }

func (f *fakeSnapshotRepo) ClearFlags(context.Context, string, string) error { return nil }

type fakeSettingsRepo struct{}

func (f *fakeSettingsRepo) GetAll(context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

type fakeLeaveRepo struct {
	overlapping []leave.Request
}

func (f *fakeLeaveRepo) GetOverlappingMonth(context.Context, string, int, time.Month) ([]leave.Request, error) {
	return f.overlapping, nil
}

func (f *fakeLeaveRepo) GetApprovedCompensatory(context.Context, string, int, time.Month) ([]leave.Request, error) {
	return nil, nil
}

func (f *fakeLeaveRepo) MenstrualDaysBefore(context.Context, string, int, time.Month) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeTripRepo struct {
	trips []trip.BusinessTrip
}

func (f *fakeTripRepo) GetApprovedByMonth(context.Context, string, int, time.Month) ([]trip.BusinessTrip, error) {
	return f.trips, nil
}

func cachedSnapshot() payroll.Snapshot {
	s := payroll.Snapshot{
		EmployeeID:     "emp-1",
		YearMonth:      "2025-11",
		BaseCents:      3600000,
		FullAttendance: true,
	}
	s.RecomputeTotals()
	return s
}

func TestApplyIncremental_TripPatch(t *testing.T) {
	snapshots := &fakeSnapshotRepo{snapshot: cachedSnapshot()}
	svc := &PayrollServiceImpl{
		settingsRepo: &fakeSettingsRepo{},
		snapshotRepo: snapshots,
		tripRepo: &fakeTripRepo{trips: []trip.BusinessTrip{
			{ID: "trip-1", Status: trip.StatusApproved, DistanceKm: decimal.NewFromInt(12)},
		}},
	}

	got, err := svc.applyIncremental(context.Background(), "emp-1", "2025-11", payroll.ChangeTrip)
	require.NoError(t, err)

	// 12 km at 5 km per interval = 3 started intervals x 6,000.
	assert.Equal(t, int64(18000), got.TransportAllowanceCents)
	assert.Equal(t, got.GrossCents-got.FixedDeductionCents-got.LeaveDeductionCents, got.NetCents)
	require.NotNil(t, snapshots.upserted)
	assert.False(t, snapshots.upserted.NeedsRecalc)
}

func TestApplyIncremental_CompensatoryLeaveRefusesPatch(t *testing.T) {
	snapshots := &fakeSnapshotRepo{snapshot: cachedSnapshot()}
	svc := &PayrollServiceImpl{
		settingsRepo: &fakeSettingsRepo{},
		snapshotRepo: snapshots,
		leaveRepo: &fakeLeaveRepo{overlapping: []leave.Request{{
			ID:     "req-1",
			Type:   leave.TypeCompensatory,
			Status: leave.StatusApproved,
			Unit:   leave.UnitHours,
			Amount: decimal.NewFromInt(2),
		}}},
	}

	// Compensatory leave moves the comp-time ledger and with it the
	// overtime line; the leave-only patch must refuse and leave the
	// cached snapshot untouched so the caller falls back to a full
	// recompute.
	_, err := svc.applyIncremental(context.Background(), "emp-1", "2025-11", payroll.ChangeLeave)
	require.Error(t, err)
	assert.Nil(t, snapshots.upserted)
}

func TestApplyIncremental_UnknownKindRejected(t *testing.T) {
	snapshots := &fakeSnapshotRepo{snapshot: cachedSnapshot()}
	svc := &PayrollServiceImpl{
		settingsRepo: &fakeSettingsRepo{},
		snapshotRepo: snapshots,
	}

	_, err := svc.applyIncremental(context.Background(), "emp-1", "2025-11", payroll.ChangeKind("salary"))
	assert.ErrorIs(t, err, errIncrementalUnsupported)
}
