package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyworks/payroll-backend-go/internal/domain/employee"
	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/domain/salaryitem"
	"github.com/tallyworks/payroll-backend-go/internal/domain/settings"
	"github.com/tallyworks/payroll-backend-go/internal/domain/timesheet"
	"github.com/tallyworks/payroll-backend-go/internal/domain/trip"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/money"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
	"github.com/tallyworks/payroll-backend-go/internal/repository/postgresql"
)

type PayrollServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	entryRepo    timesheet.TimeEntryRepository
	leaveRepo    leave.LeaveRequestRepository
	itemRepo     salaryitem.SalaryItemRepository
	tripRepo     trip.BusinessTripRepository
	settingsRepo settings.SettingsRepository
	snapshotRepo payroll.SnapshotRepository
	ledger       *CompTimeLedger
}

func NewPayrollService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	entryRepo timesheet.TimeEntryRepository,
	leaveRepo leave.LeaveRequestRepository,
	itemRepo salaryitem.SalaryItemRepository,
	tripRepo trip.BusinessTripRepository,
	settingsRepo settings.SettingsRepository,
	snapshotRepo payroll.SnapshotRepository,
	ledger *CompTimeLedger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		entryRepo:    entryRepo,
		leaveRepo:    leaveRepo,
		itemRepo:     itemRepo,
		tripRepo:     tripRepo,
		settingsRepo: settingsRepo,
		snapshotRepo: snapshotRepo,
		ledger:       ledger,
	}
}

func (s *PayrollServiceImpl) resolveConfig(ctx context.Context) (payroll.CalcConfig, error) {
	values, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return payroll.CalcConfig{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return payroll.ResolveCalcConfig(values), nil
}

func (s *PayrollServiceImpl) Compute(ctx context.Context, employeeID, yearMonth string) (payroll.Snapshot, error) {
	year, month, ok := validator.ParseYearMonth(yearMonth)
	if !ok {
		return payroll.Snapshot{}, payroll.ErrInvalidYearMonth
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.Snapshot{}, err
	}
	if !emp.Active {
		return payroll.Snapshot{}, payroll.ErrEmployeeNotActive
	}

	cfg, err := s.resolveConfig(ctx)
	if err != nil {
		return payroll.Snapshot{}, err
	}

	entries, err := s.entryRepo.GetByEmployeeMonth(ctx, employeeID, year, month)
	if err != nil {
		return payroll.Snapshot{}, fmt.Errorf("failed to load time entries: %w", err)
	}
	items, err := s.itemRepo.GetByEmployee(ctx, employeeID)
	if err != nil {
		return payroll.Snapshot{}, fmt.Errorf("failed to load salary items: %w", err)
	}

	// Ledger writes and the snapshot upsert commit together; a failed
	// run leaves both exactly as the previous run did.
	var persisted payroll.Snapshot
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		// The comp-time ledger is brought up to date before assembly so
		// the snapshot reads conversion totals, never raw re-derivations.
		// Last run's monthly conversion is reverted first: consumption
		// and conversion must see the balances current entries and
		// approvals produce, not the drained rows of a previous run.
		if err := s.ledger.RevertMonthly(txCtx, employeeID, year, month); err != nil {
			return err
		}
		if err := s.ledger.SyncGrants(txCtx, employeeID, year, month, entries, cfg); err != nil {
			return err
		}
		if err := s.ledger.ApplyConsumption(txCtx, employeeID, year, month); err != nil {
			return err
		}
		hourlyRate := money.DivInt(emp.BaseSalaryCents+regularAllowanceTotal(items, year, month), cfg.HourlyRateDivisor)
		if err := s.ledger.ConvertMonthly(txCtx, employeeID, year, month, hourlyRate); err != nil {
			return err
		}
		overtimeCents, err := s.ledger.OvertimeCents(txCtx, employeeID, year, month)
		if err != nil {
			return fmt.Errorf("failed to sum overtime conversions: %w", err)
		}

		requests, err := s.leaveRepo.GetOverlappingMonth(txCtx, employeeID, year, month)
		if err != nil {
			return fmt.Errorf("failed to load leave requests: %w", err)
		}
		priorMenstrual, err := s.leaveRepo.MenstrualDaysBefore(txCtx, employeeID, year, month)
		if err != nil {
			return fmt.Errorf("failed to load menstrual history: %w", err)
		}
		adjustment, err := s.itemRepo.GetPerformanceAdjustment(txCtx, employeeID, yearMonth)
		if err != nil {
			return fmt.Errorf("failed to load performance adjustment: %w", err)
		}
		trips, err := s.tripRepo.GetApprovedByMonth(txCtx, employeeID, year, month)
		if err != nil {
			return fmt.Errorf("failed to load business trips: %w", err)
		}

		snapshot := Assemble(ComputationInput{
			Employee:              emp,
			Entries:               entries,
			LeaveRequests:         requests,
			Items:                 items,
			PerformanceAdjustment: adjustment,
			Trips:                 trips,
			OvertimeCents:         overtimeCents,
			PriorMenstrualDays:    priorMenstrual,
		}, cfg, year, month)

		snapshot.ID = uuid.NewString()
		snapshot.NeedsRecalc = false
		snapshot.LastError = nil
		snapshot.ComputedAt = time.Now().UTC()

		persisted, err = s.snapshotRepo.Upsert(txCtx, snapshot)
		if err != nil {
			return fmt.Errorf("failed to persist snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.Snapshot{}, err
	}
	return persisted, nil
}

func (s *PayrollServiceImpl) GetCached(ctx context.Context, employeeID, yearMonth string) (*payroll.Snapshot, error) {
	if !validator.IsValidYearMonth(yearMonth) {
		return nil, payroll.ErrInvalidYearMonth
	}
	snapshot, err := s.snapshotRepo.Get(ctx, employeeID, yearMonth)
	if err != nil {
		if errors.Is(err, payroll.ErrSnapshotNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (s *PayrollServiceImpl) ApplyIncremental(ctx context.Context, employeeID, yearMonth string, kind payroll.ChangeKind) (payroll.Snapshot, error) {
	snapshot, err := s.applyIncremental(ctx, employeeID, yearMonth, kind)
	if err == nil {
		return snapshot, nil
	}
	if errors.Is(err, payroll.ErrInvalidYearMonth) || errors.Is(err, employee.ErrEmployeeNotFound) {
		return payroll.Snapshot{}, err
	}

	// The patch is best-effort only; anything unexpected falls back
	// to a full recompute.
	slog.Warn("Incremental payroll update failed, falling back to full recompute",
		"employee_id", employeeID, "year_month", yearMonth, "kind", kind, "error", err)
	return s.Compute(ctx, employeeID, yearMonth)
}

var errIncrementalUnsupported = errors.New("change kind not eligible for incremental update")

func (s *PayrollServiceImpl) applyIncremental(ctx context.Context, employeeID, yearMonth string, kind payroll.ChangeKind) (payroll.Snapshot, error) {
	year, month, ok := validator.ParseYearMonth(yearMonth)
	if !ok {
		return payroll.Snapshot{}, payroll.ErrInvalidYearMonth
	}

	snapshot, err := s.snapshotRepo.Get(ctx, employeeID, yearMonth)
	if err != nil {
		return payroll.Snapshot{}, err
	}

	cfg, err := s.resolveConfig(ctx)
	if err != nil {
		return payroll.Snapshot{}, err
	}

	switch kind {
	case payroll.ChangeOvertime:
		entries, err := s.entryRepo.GetByEmployeeMonth(ctx, employeeID, year, month)
		if err != nil {
			return payroll.Snapshot{}, err
		}
		if err := s.ledger.RevertMonthly(ctx, employeeID, year, month); err != nil {
			return payroll.Snapshot{}, err
		}
		if err := s.ledger.SyncGrants(ctx, employeeID, year, month, entries, cfg); err != nil {
			return payroll.Snapshot{}, err
		}
		hourlyRate := money.DivInt(snapshot.BaseCents+snapshot.RegularAllowanceCents, cfg.HourlyRateDivisor)
		if err := s.ledger.ConvertMonthly(ctx, employeeID, year, month, hourlyRate); err != nil {
			return payroll.Snapshot{}, err
		}
		overtimeCents, err := s.ledger.OvertimeCents(ctx, employeeID, year, month)
		if err != nil {
			return payroll.Snapshot{}, err
		}
		hours := SummarizeHours(entries)
		snapshot.OvertimeCents = overtimeCents
		snapshot.MealAllowanceCents = MealAllowanceCents(entries, cfg)
		snapshot.TotalHours = hours.TotalHours
		snapshot.WeightedHours = hours.WeightedHours
		snapshot.StandardHours = hours.StandardHours

	case payroll.ChangeLeave:
		requests, err := s.leaveRepo.GetOverlappingMonth(ctx, employeeID, year, month)
		if err != nil {
			return payroll.Snapshot{}, err
		}
		for _, req := range requests {
			if req.Type == leave.TypeCompensatory {
				// Compensatory leave moves the comp-time ledger, which
				// changes the overtime line too. Out of reach for a
				// leave-only patch.
				return payroll.Snapshot{}, fmt.Errorf("compensatory leave present, incremental patch insufficient")
			}
		}
		if FullAttendance(requests, year, month) != snapshot.FullAttendance {
			// Attendance flipped: the bonus gating changes too, which
			// needs the salary items. Not a narrow patch anymore.
			return payroll.Snapshot{}, fmt.Errorf("attendance status changed, incremental patch insufficient")
		}
		priorMenstrual, err := s.leaveRepo.MenstrualDaysBefore(ctx, employeeID, year, month)
		if err != nil {
			return payroll.Snapshot{}, err
		}
		deduction := DeductLeave(LeaveDeductionInput{
			Requests:              requests,
			BaseSalaryCents:       snapshot.BaseCents,
			RegularAllowanceCents: snapshot.RegularAllowanceCents,
			PriorMenstrualDays:    priorMenstrual,
		}, cfg, year, month)
		snapshot.LeaveDeductionCents = deduction.TotalCents

	case payroll.ChangeTrip:
		trips, err := s.tripRepo.GetApprovedByMonth(ctx, employeeID, year, month)
		if err != nil {
			return payroll.Snapshot{}, err
		}
		snapshot.TransportAllowanceCents = TransportAllowanceCents(trips, cfg)

	default:
		return payroll.Snapshot{}, errIncrementalUnsupported
	}

	snapshot.RecomputeTotals()
	snapshot.NeedsRecalc = false
	snapshot.LastError = nil
	snapshot.ComputedAt = time.Now().UTC()

	return s.snapshotRepo.Upsert(ctx, snapshot)
}

func (s *PayrollServiceImpl) RecomputeMonth(ctx context.Context, yearMonth string) (payroll.BatchSummary, error) {
	if !validator.IsValidYearMonth(yearMonth) {
		return payroll.BatchSummary{}, payroll.ErrInvalidYearMonth
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return payroll.BatchSummary{}, fmt.Errorf("failed to load active employees: %w", err)
	}

	summary := payroll.BatchSummary{}
	for _, emp := range employees {
		outcome := payroll.TaskOutcome{EmployeeID: emp.ID, YearMonth: yearMonth}
		if _, err := s.Compute(ctx, emp.ID, yearMonth); err != nil {
			outcome.Error = err.Error()
			summary.Failed++
			slog.Error("Batch recompute failed for employee",
				"employee_id", emp.ID, "year_month", yearMonth, "error", err)
		} else {
			outcome.Success = true
			summary.Succeeded++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	slog.Info("Batch recompute finished",
		"year_month", yearMonth, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary, nil
}

func (s *PayrollServiceImpl) ExpireCompTime(ctx context.Context, asOf time.Time) (int, error) {
	cfg, err := s.resolveConfig(ctx)
	if err != nil {
		return 0, err
	}
	return s.ledger.ExpireGrants(ctx, asOf, cfg)
}

// regularAllowanceTotal sums the scheduled regular allowances; the
// hourly rate divides (base + regular allowance), so this must be
// known before conversion runs.
func regularAllowanceTotal(items []salaryitem.Item, year int, month time.Month) int64 {
	total := int64(0)
	for _, item := range items {
		if item.Category == salaryitem.CategoryRegularAllowance && ShouldPayInMonth(item, year, month) {
			total += item.AmountCents
		}
	}
	return total
}
