package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one row of the itemized snapshot breakdown.
type LineItem struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

// Snapshot is the persisted payroll result for one employee and one
// month, the single cache row downstream reporting reads. It is
// overwritten wholesale on every successful recompute.
type Snapshot struct {
	ID         string
	EmployeeID string
	YearMonth  string // "2006-01"

	BaseCents               int64
	RegularAllowanceCents   int64
	IrregularAllowanceCents int64
	RegularBonusCents       int64
	AttendanceBonusCents    int64
	PerformanceBonusCents   int64
	YearEndBonusCents       int64
	OvertimeCents           int64
	MealAllowanceCents      int64
	TransportAllowanceCents int64

	FixedDeductionCents int64
	LeaveDeductionCents int64

	GrossCents int64
	NetCents   int64

	TotalHours     decimal.Decimal
	WeightedHours  decimal.Decimal
	StandardHours  decimal.Decimal
	FullAttendance bool

	Breakdown []LineItem

	NeedsRecalc bool
	LastError   *string
	ComputedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecomputeTotals rebuilds gross and net from the itemized fields.
// The incremental-update path patches one component and calls this;
// full recomputation produces the same sums by construction.
func (s *Snapshot) RecomputeTotals() {
	s.GrossCents = s.BaseCents +
		s.RegularAllowanceCents +
		s.IrregularAllowanceCents +
		s.RegularBonusCents +
		s.AttendanceBonusCents +
		s.PerformanceBonusCents +
		s.YearEndBonusCents +
		s.OvertimeCents +
		s.MealAllowanceCents +
		s.TransportAllowanceCents
	s.NetCents = s.GrossCents - s.FixedDeductionCents - s.LeaveDeductionCents
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskError      TaskStatus = "error"
)

// RecalcTask is one durable work item: "recompute this employee for
// this month". At most one task exists per (employee, month); repeat
// enqueues coalesce into the existing row. Kind names the narrow
// change class when the whole backlog for the pair is of one kind; an
// empty kind means full recompute, and enqueues of differing kinds
// widen the task to full.
type RecalcTask struct {
	ID         string
	EmployeeID string
	YearMonth  string
	Reason     string
	Kind       ChangeKind
	Status     TaskStatus
	Attempts   int
	LastError  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TaskOutcome reports one task's fate after a queue drain.
type TaskOutcome struct {
	EmployeeID string `json:"employee_id"`
	YearMonth  string `json:"year_month"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}
