package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/comptime"
	"github.com/tallyworks/payroll-backend-go/internal/domain/employee"
	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/domain/timesheet"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/money"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

// GrantSpec is the in-memory form of one ledger grant before it is
// persisted: overtime worked on one day under one code.
type GrantSpec struct {
	EntryDate  time.Time
	WorkType   timesheet.WorkTypeCode
	Multiplier decimal.Decimal
	Hours      decimal.Decimal
}

// CompHoursFromEntries derives the compensatory hours generated by a
// month's overtime entries, aggregated per (date, work type).
//
// Ordinary overtime converts 1:1. Fixed-8h codes distribute a fixed
// 8-hour pool across the day's entries of that code (hours/dailyTotal
// x 8), so the per-day sum is exactly 8 regardless of entry count.
func CompHoursFromEntries(entries []timesheet.TimeEntry) []GrantSpec {
	type key struct {
		day      string
		workType timesheet.WorkTypeCode
	}
	sums := make(map[key]*GrantSpec)
	order := make([]key, 0)

	for _, entry := range entries {
		if entry.DeletedAt != nil {
			continue
		}
		rule := timesheet.RuleFor(entry.WorkType)
		if !rule.IsOvertime {
			continue
		}
		k := key{day: dayKey(entry.WorkDate), workType: entry.WorkType}
		spec, ok := sums[k]
		if !ok {
			spec = &GrantSpec{
				EntryDate:  entry.WorkDate,
				WorkType:   entry.WorkType,
				Multiplier: rule.Multiplier,
			}
			sums[k] = spec
			order = append(order, k)
		}
		spec.Hours = spec.Hours.Add(entry.Hours)
	}

	specs := make([]GrantSpec, 0, len(order))
	for _, k := range order {
		spec := sums[k]
		rule := timesheet.RuleFor(spec.WorkType)
		if rule.SpecialFixed8h && spec.Hours.IsPositive() {
			// The day's entries share a fixed 8-hour pool. Summed over
			// the (date, type) pair the proportional split is exactly 8.
			spec.Hours = eightHours
		}
		specs = append(specs, *spec)
	}

	sort.Slice(specs, func(i, j int) bool {
		if specs[i].EntryDate.Equal(specs[j].EntryDate) {
			return specs[i].WorkType < specs[j].WorkType
		}
		return specs[i].EntryDate.Before(specs[j].EntryDate)
	})
	return specs
}

// Allocation assigns consumed hours to one grant.
type Allocation struct {
	GrantID string
	Hours   decimal.Decimal
}

// AllocateFIFO spreads the requested hours over the grants in entry-
// date order, oldest first. Partial consumption is allowed: a grant
// can be split between consumed and remaining. The second return is
// the unallocated remainder when the balance runs out.
func AllocateFIFO(grants []comptime.Grant, hours decimal.Decimal) ([]Allocation, decimal.Decimal) {
	sorted := make([]comptime.Grant, len(grants))
	copy(sorted, grants)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EntryDate.Before(sorted[j].EntryDate)
	})

	var allocations []Allocation
	remaining := hours
	for _, grant := range sorted {
		if !remaining.IsPositive() {
			break
		}
		if !grant.HoursRemaining.IsPositive() {
			continue
		}
		take := grant.HoursRemaining
		if take.GreaterThan(remaining) {
			take = remaining
		}
		allocations = append(allocations, Allocation{GrantID: grant.ID, Hours: take})
		remaining = remaining.Sub(take)
	}
	return allocations, remaining
}

// CompTimeLedger owns the persisted compensatory-time balance: grant
// generation, FIFO consumption against approved comp leave, and the
// two cash-conversion paths. Both paths drain the same grant rows, so
// hours can never be paid twice.
type CompTimeLedger struct {
	compRepo     comptime.CompTimeRepository
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
}

func NewCompTimeLedger(
	compRepo comptime.CompTimeRepository,
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
) *CompTimeLedger {
	return &CompTimeLedger{
		compRepo:     compRepo,
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
	}
}

// SyncGrants upserts the ledger grants derived from the month's
// entries. Re-running after an entry edit adjusts the generated hours
// while preserving recorded consumption.
func (l *CompTimeLedger) SyncGrants(ctx context.Context, employeeID string, year int, month time.Month, entries []timesheet.TimeEntry, cfg payroll.CalcConfig) error {
	yearMonth := validator.FormatYearMonth(year, month)
	monthEnd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	for _, spec := range CompHoursFromEntries(entries) {
		grant := comptime.Grant{
			ID:             uuid.NewString(),
			EmployeeID:     employeeID,
			EntryDate:      spec.EntryDate,
			WorkType:       spec.WorkType,
			Multiplier:     spec.Multiplier,
			HoursGenerated: spec.Hours,
			HoursRemaining: spec.Hours,
			GrantMonth:     yearMonth,
			ExpiryDate:     monthEnd.AddDate(0, cfg.CompExpiryMonths, 0),
			Status:         comptime.GrantActive,
		}
		if _, err := l.compRepo.UpsertGrant(ctx, grant); err != nil {
			return fmt.Errorf("failed to sync grant for %s/%s: %w", employeeID, spec.EntryDate.Format("2006-01-02"), err)
		}
	}
	return nil
}

// ApplyConsumption drains the ledger for every approved compensatory
// leave request of the month that has not been applied yet. Day-unit
// requests count 8 hours per day. Idempotent per leave request.
func (l *CompTimeLedger) ApplyConsumption(ctx context.Context, employeeID string, year int, month time.Month) error {
	requests, err := l.leaveRepo.GetApprovedCompensatory(ctx, employeeID, year, month)
	if err != nil {
		return fmt.Errorf("failed to load compensatory leave: %w", err)
	}

	for _, req := range requests {
		applied, err := l.compRepo.HasConsumptionForRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		hours := req.HoursInMonth(year, month)
		if !hours.IsPositive() {
			continue
		}

		grants, err := l.compRepo.GetActiveGrants(ctx, employeeID)
		if err != nil {
			return err
		}
		allocations, _ := AllocateFIFO(grants, hours)
		for _, alloc := range allocations {
			if err := l.drain(ctx, alloc.GrantID, grants, alloc.Hours, comptime.GrantConsumed); err != nil {
				return err
			}
			consumption := comptime.Consumption{
				ID:             uuid.NewString(),
				GrantID:        alloc.GrantID,
				LeaveRequestID: req.ID,
				Hours:          alloc.Hours,
			}
			if err := l.compRepo.CreateConsumption(ctx, consumption); err != nil {
				return fmt.Errorf("failed to record consumption for request %s: %w", req.ID, err)
			}
		}
	}
	return nil
}

// RevertMonthly undoes the month's monthly cash conversion: the
// conversion rows are deleted and the converted hours credited back
// onto their grants. A recompute calls this first so consumption and
// conversion both run against current source data instead of being
// blocked by last run's rows.
func (l *CompTimeLedger) RevertMonthly(ctx context.Context, employeeID string, year int, month time.Month) error {
	yearMonth := validator.FormatYearMonth(year, month)
	if err := l.compRepo.RevertMonthlyConversions(ctx, employeeID, yearMonth); err != nil {
		return fmt.Errorf("failed to revert monthly conversions for %s: %w", yearMonth, err)
	}
	return nil
}

// ConvertMonthly monetizes the month's still-unused grants into that
// month's payroll: remaining hours x hourly rate x original
// multiplier, rounded per grant. The grant rows are drained and a
// conversion row written per grant. With unchanged inputs a
// revert-then-convert cycle rebuilds identical rows, so the snapshot
// stays byte-identical across re-runs.
func (l *CompTimeLedger) ConvertMonthly(ctx context.Context, employeeID string, year int, month time.Month, hourlyRateCents int64) error {
	yearMonth := validator.FormatYearMonth(year, month)
	grants, err := l.compRepo.GetGrantsByMonth(ctx, employeeID, yearMonth)
	if err != nil {
		return fmt.Errorf("failed to load grants for %s: %w", yearMonth, err)
	}

	for _, grant := range grants {
		if grant.Status != comptime.GrantActive || !grant.HoursRemaining.IsPositive() {
			continue
		}
		conversion := comptime.Conversion{
			ID:          uuid.NewString(),
			GrantID:     grant.ID,
			EmployeeID:  employeeID,
			YearMonth:   yearMonth,
			Hours:       grant.HoursRemaining,
			Multiplier:  grant.Multiplier,
			AmountCents: money.HoursTimesRate(grant.HoursRemaining, hourlyRateCents, grant.Multiplier),
			Source:      comptime.SourceMonthly,
		}
		inserted, err := l.compRepo.CreateConversion(ctx, conversion)
		if err != nil {
			return fmt.Errorf("failed to convert grant %s: %w", grant.ID, err)
		}
		if !inserted {
			continue
		}
		if err := l.compRepo.DrainGrant(ctx, grant.ID, grant.HoursRemaining, comptime.GrantConsumed); err != nil {
			return err
		}
	}
	return nil
}

// OvertimeCents totals the month's conversion payouts; this is the
// overtime-cash line of the snapshot.
func (l *CompTimeLedger) OvertimeCents(ctx context.Context, employeeID string, year int, month time.Month) (int64, error) {
	return l.compRepo.SumConversions(ctx, employeeID, validator.FormatYearMonth(year, month))
}

// ExpireGrants is the scheduled expiry path: grants past their expiry
// date with a balance left are converted to cash and marked expired.
// It only sees grants the monthly path did not already drain.
func (l *CompTimeLedger) ExpireGrants(ctx context.Context, asOf time.Time, cfg payroll.CalcConfig) (int, error) {
	grants, err := l.compRepo.GetExpiredActive(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to load expired grants: %w", err)
	}

	expired := 0
	for _, grant := range grants {
		emp, err := l.employeeRepo.GetByID(ctx, grant.EmployeeID)
		if err != nil {
			return expired, fmt.Errorf("failed to load employee %s: %w", grant.EmployeeID, err)
		}
		rate := money.DivInt(emp.BaseSalaryCents, cfg.HourlyRateDivisor)

		conversion := comptime.Conversion{
			ID:          uuid.NewString(),
			GrantID:     grant.ID,
			EmployeeID:  grant.EmployeeID,
			YearMonth:   validator.FormatYearMonth(asOf.Year(), asOf.Month()),
			Hours:       grant.HoursRemaining,
			Multiplier:  grant.Multiplier,
			AmountCents: money.HoursTimesRate(grant.HoursRemaining, rate, grant.Multiplier),
			Source:      comptime.SourceExpiry,
		}
		inserted, err := l.compRepo.CreateConversion(ctx, conversion)
		if err != nil {
			return expired, fmt.Errorf("failed to convert expired grant %s: %w", grant.ID, err)
		}
		if !inserted {
			continue
		}
		if err := l.compRepo.DrainGrant(ctx, grant.ID, grant.HoursRemaining, comptime.GrantExpired); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (l *CompTimeLedger) drain(ctx context.Context, grantID string, grants []comptime.Grant, hours decimal.Decimal, status comptime.GrantStatus) error {
	for _, grant := range grants {
		if grant.ID != grantID {
			continue
		}
		finalStatus := comptime.GrantActive
		if grant.HoursRemaining.Sub(hours).LessThanOrEqual(decimal.Zero) {
			finalStatus = status
		}
		return l.compRepo.DrainGrant(ctx, grantID, hours, finalStatus)
	}
	return comptime.ErrGrantNotFound
}
