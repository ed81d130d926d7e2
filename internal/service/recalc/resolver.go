package recalc

import (
	"context"
	"fmt"
	"time"

	"github.com/tallyworks/payroll-backend-go/internal/domain/employee"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
)

// Resolver is the single place that translates domain mutations into
// affected (employee, month) pairs and enqueues them. Handlers raise
// one event; the fan-out logic lives here instead of being duplicated
// per mutation site.
type Resolver struct {
	recalcSvc    payroll.RecalcService
	employeeRepo employee.EmployeeRepository
}

func NewResolver(recalcSvc payroll.RecalcService, employeeRepo employee.EmployeeRepository) *Resolver {
	return &Resolver{recalcSvc: recalcSvc, employeeRepo: employeeRepo}
}

// TimeEntryChanged covers create, edit and soft-delete of a time
// entry: only the entry's month is affected, and only through the
// hours/overtime component, so the task carries the overtime kind.
func (r *Resolver) TimeEntryChanged(ctx context.Context, employeeID string, workDate time.Time) error {
	return r.recalcSvc.Enqueue(ctx, employeeID, workDate, payroll.ChangeOvertime, "time entry changed")
}

// LeaveChanged covers request creation and status transitions. A
// range can straddle month boundaries, so every touched month is
// enqueued.
func (r *Resolver) LeaveChanged(ctx context.Context, employeeID string, startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		endDate = startDate
	}
	cursor := time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(endDate.Year(), endDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(last) {
		if err := r.recalcSvc.Enqueue(ctx, employeeID, cursor, payroll.ChangeLeave, "leave request changed"); err != nil {
			return err
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return nil
}

// SalaryItemChanged enqueues the months of the item's effective
// window that have already started, capped at twelve to bound the
// fan-out; future months are picked up when they are computed.
func (r *Resolver) SalaryItemChanged(ctx context.Context, employeeID string, effectiveDate time.Time, expiryDate *time.Time) error {
	now := time.Now().UTC()
	end := now
	if expiryDate != nil && expiryDate.Before(now) {
		end = *expiryDate
	}

	cursor := time.Date(effectiveDate.Year(), effectiveDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for months := 0; !cursor.After(last) && months < 12; months++ {
		if err := r.recalcSvc.Enqueue(ctx, employeeID, cursor, "", "salary item changed"); err != nil {
			return err
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return nil
}

// HolidayChanged fans out to every active employee: a calendar change
// is shared input, and reclassified entries can move any pay line, so
// the tasks are full recomputes.
func (r *Resolver) HolidayChanged(ctx context.Context, day time.Time) error {
	employees, err := r.employeeRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active employees: %w", err)
	}
	for _, emp := range employees {
		if err := r.recalcSvc.Enqueue(ctx, emp.ID, day, "", "holiday calendar changed"); err != nil {
			return err
		}
	}
	return nil
}
