package recalc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

// RecalcServiceImpl drives the durable recalculation queue: it
// decouples "something changed" events from the actual recompute and
// gives failed work a place to wait for retry.
type RecalcServiceImpl struct {
	taskRepo     payroll.RecalcTaskRepository
	snapshotRepo payroll.SnapshotRepository
	payrollSvc   payroll.PayrollService
	staleAfter   time.Duration
}

func NewRecalcService(
	taskRepo payroll.RecalcTaskRepository,
	snapshotRepo payroll.SnapshotRepository,
	payrollSvc payroll.PayrollService,
	staleAfter time.Duration,
) payroll.RecalcService {
	return &RecalcServiceImpl{
		taskRepo:     taskRepo,
		snapshotRepo: snapshotRepo,
		payrollSvc:   payrollSvc,
		staleAfter:   staleAfter,
	}
}

func (s *RecalcServiceImpl) Enqueue(ctx context.Context, employeeID string, referenceDate time.Time, kind payroll.ChangeKind, reason string) error {
	yearMonth := validator.FormatYearMonth(referenceDate.Year(), referenceDate.Month())

	task := payroll.RecalcTask{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		YearMonth:  yearMonth,
		Reason:     reason,
		Kind:       kind,
		Status:     payroll.TaskPending,
	}
	if _, err := s.taskRepo.Upsert(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue recalculation for %s/%s: %w", employeeID, yearMonth, err)
	}

	// Flag the cached row as stale so readers can tell the data may
	// be outdated. A missing row is fine: nothing was computed yet.
	if err := s.snapshotRepo.MarkNeedsRecalc(ctx, employeeID, yearMonth); err != nil &&
		!errors.Is(err, payroll.ErrSnapshotNotFound) {
		return err
	}
	return nil
}

func (s *RecalcServiceImpl) Process(ctx context.Context, yearMonth *string, limit int) ([]payroll.TaskOutcome, error) {
	if yearMonth != nil && !validator.IsValidYearMonth(*yearMonth) {
		return nil, payroll.ErrInvalidYearMonth
	}
	if limit < 1 {
		limit = 1
	}

	// Re-claim work a crashed worker left behind before picking up
	// the batch.
	demoted, err := s.taskRepo.DemoteStale(ctx, time.Now().UTC().Add(-s.staleAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to demote stale tasks: %w", err)
	}
	if demoted > 0 {
		slog.Warn("Demoted stale processing tasks back to pending", "count", demoted)
	}

	tasks, err := s.taskRepo.ListDue(ctx, yearMonth, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	outcomes := make([]payroll.TaskOutcome, 0, len(tasks))
	for _, task := range tasks {
		outcomes = append(outcomes, s.processTask(ctx, task))
	}
	return outcomes, nil
}

func (s *RecalcServiceImpl) processTask(ctx context.Context, task payroll.RecalcTask) payroll.TaskOutcome {
	outcome := payroll.TaskOutcome{EmployeeID: task.EmployeeID, YearMonth: task.YearMonth}

	if err := s.taskRepo.MarkProcessing(ctx, task.ID); err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	// A kind-scoped task takes the incremental path; that path falls
	// back to a full recompute on its own when the patch cannot apply.
	var err error
	if task.Kind != "" {
		_, err = s.payrollSvc.ApplyIncremental(ctx, task.EmployeeID, task.YearMonth, task.Kind)
	} else {
		_, err = s.payrollSvc.Compute(ctx, task.EmployeeID, task.YearMonth)
	}
	if err != nil {
		outcome.Error = err.Error()
		// The error lands on both the task and the cache row so a
		// stale-but-present snapshot is distinguishable from one that
		// was never computed.
		if markErr := s.taskRepo.MarkError(ctx, task.ID, err.Error()); markErr != nil {
			slog.Error("Failed to mark task error", "task_id", task.ID, "error", markErr)
		}
		if setErr := s.snapshotRepo.SetError(ctx, task.EmployeeID, task.YearMonth, err.Error()); setErr != nil &&
			!errors.Is(setErr, payroll.ErrSnapshotNotFound) {
			slog.Error("Failed to record snapshot error", "task_id", task.ID, "error", setErr)
		}
		slog.Error("Recalculation task failed",
			"employee_id", task.EmployeeID, "year_month", task.YearMonth, "error", err)
		return outcome
	}

	// Compute persisted a fresh snapshot with the flags cleared; the
	// task row is done.
	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Success = true
	return outcome
}

func (s *RecalcServiceImpl) Clear(ctx context.Context, employeeID, yearMonth string) error {
	if !validator.IsValidYearMonth(yearMonth) {
		return payroll.ErrInvalidYearMonth
	}
	if err := s.taskRepo.DeleteByKey(ctx, employeeID, yearMonth); err != nil &&
		!errors.Is(err, payroll.ErrTaskNotFound) {
		return err
	}
	if err := s.snapshotRepo.ClearFlags(ctx, employeeID, yearMonth); err != nil &&
		!errors.Is(err, payroll.ErrSnapshotNotFound) {
		return err
	}
	return nil
}
