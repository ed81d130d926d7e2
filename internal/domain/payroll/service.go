package payroll

import (
	"context"
	"time"
)

// ChangeKind names the narrow mutation classes eligible for the
// incremental snapshot patch instead of a full recompute.
type ChangeKind string

const (
	ChangeOvertime ChangeKind = "overtime"
	ChangeLeave    ChangeKind = "leave"
	ChangeTrip     ChangeKind = "trip"
)

// BatchSummary reports a month-wide recomputation: one employee's
// failure never aborts the batch.
type BatchSummary struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Outcomes  []TaskOutcome `json:"outcomes"`
}

type PayrollService interface {
	// Compute always recomputes the snapshot from current source data
	// and persists it.
	Compute(ctx context.Context, employeeID, yearMonth string) (Snapshot, error)

	// GetCached returns the last persisted snapshot regardless of
	// staleness, or nil when none was ever computed.
	GetCached(ctx context.Context, employeeID, yearMonth string) (*Snapshot, error)

	// ApplyIncremental patches only the fields affected by the change
	// kind and re-derives gross/net from the cached remainder. Any
	// failure falls back to a full recompute; the patch is an
	// optimization, never the source of truth.
	ApplyIncremental(ctx context.Context, employeeID, yearMonth string, kind ChangeKind) (Snapshot, error)

	// RecomputeMonth recomputes every active employee for the month
	// with per-employee error isolation.
	RecomputeMonth(ctx context.Context, yearMonth string) (BatchSummary, error)

	// ExpireCompTime runs the scheduled comp-time expiry conversion
	// and returns how many grants were expired.
	ExpireCompTime(ctx context.Context, asOf time.Time) (int, error)
}

type RecalcService interface {
	// Enqueue upserts a recalculation task for the month containing
	// referenceDate. Repeat enqueues coalesce; differing kinds widen
	// the task to a full recompute. An empty kind always means full.
	Enqueue(ctx context.Context, employeeID string, referenceDate time.Time, kind ChangeKind, reason string) error

	// Process drains up to limit due tasks, optionally scoped to one
	// month, and reports per-task outcomes.
	Process(ctx context.Context, yearMonth *string, limit int) ([]TaskOutcome, error)

	// Clear removes the task and the snapshot's needs-recalc flag
	// without recomputation.
	Clear(ctx context.Context, employeeID, yearMonth string) error
}
