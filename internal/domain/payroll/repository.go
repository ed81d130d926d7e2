package payroll

import (
	"context"
	"time"
)

type SnapshotRepository interface {
	// Upsert overwrites the snapshot for (employee, month) wholesale.
	Upsert(ctx context.Context, s Snapshot) (Snapshot, error)

	// Get returns the last persisted snapshot regardless of staleness.
	Get(ctx context.Context, employeeID, yearMonth string) (Snapshot, error)

	// SetError marks the row stale-with-error so stale-but-present
	// data stays distinguishable from data never computed.
	SetError(ctx context.Context, employeeID, yearMonth, message string) error

	// MarkNeedsRecalc flags an existing row without touching amounts.
	MarkNeedsRecalc(ctx context.Context, employeeID, yearMonth string) error

	// ClearFlags resets needs-recalc and last-error without
	// recomputation, after a successful external compute.
	ClearFlags(ctx context.Context, employeeID, yearMonth string) error
}

type RecalcTaskRepository interface {
	// Upsert coalesces by (employee, month): an existing task gets its
	// reason and timestamp refreshed instead of a duplicate row.
	Upsert(ctx context.Context, task RecalcTask) (RecalcTask, error)

	// ListDue returns pending and errored tasks, oldest first,
	// optionally filtered to one month.
	ListDue(ctx context.Context, yearMonth *string, limit int) ([]RecalcTask, error)

	// MarkProcessing transitions the task and bumps the attempt count.
	MarkProcessing(ctx context.Context, id string) error

	MarkError(ctx context.Context, id, message string) error

	Delete(ctx context.Context, id string) error

	DeleteByKey(ctx context.Context, employeeID, yearMonth string) error

	// DemoteStale moves processing tasks older than the cutoff back to
	// pending so a crashed worker's claim is re-claimable.
	DemoteStale(ctx context.Context, olderThan time.Time) (int, error)
}
