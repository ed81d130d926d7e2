package payroll

import (
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

type EnqueueRecalculationRequest struct {
	EmployeeID    string `json:"employee_id"`
	ReferenceDate string `json:"reference_date"` // YYYY-MM-DD; month derived
	Reason        string `json:"reason"`
	ChangeKind    string `json:"change_kind,omitempty"` // empty = full recompute
}

func (r *EnqueueRecalculationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.ReferenceDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "reference_date",
			Message: "reference_date must be formatted as YYYY-MM-DD",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if !validator.IsInSlice(r.ChangeKind, []string{
		"", string(ChangeOvertime), string(ChangeLeave), string(ChangeTrip),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "change_kind",
			Message: "change_kind must be one of overtime, leave, trip",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProcessQueueRequest struct {
	YearMonth *string `json:"year_month,omitempty"`
	Limit     int     `json:"limit"`
}

func (r *ProcessQueueRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.YearMonth != nil && !validator.IsValidYearMonth(*r.YearMonth) {
		errs = append(errs, validator.ValidationError{
			Field:   "year_month",
			Message: "year_month must be formatted as YYYY-MM",
		})
	}
	if r.Limit < 1 || r.Limit > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 1000",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SnapshotResponse is the wire shape of a snapshot.
type SnapshotResponse struct {
	EmployeeID string `json:"employee_id"`
	YearMonth  string `json:"year_month"`

	BaseCents               int64 `json:"base_cents"`
	RegularAllowanceCents   int64 `json:"regular_allowance_cents"`
	IrregularAllowanceCents int64 `json:"irregular_allowance_cents"`
	RegularBonusCents       int64 `json:"regular_bonus_cents"`
	AttendanceBonusCents    int64 `json:"attendance_bonus_cents"`
	PerformanceBonusCents   int64 `json:"performance_bonus_cents"`
	YearEndBonusCents       int64 `json:"year_end_bonus_cents"`
	OvertimeCents           int64 `json:"overtime_cents"`
	MealAllowanceCents      int64 `json:"meal_allowance_cents"`
	TransportAllowanceCents int64 `json:"transport_allowance_cents"`

	FixedDeductionCents int64 `json:"fixed_deduction_cents"`
	LeaveDeductionCents int64 `json:"leave_deduction_cents"`

	GrossCents int64 `json:"gross_cents"`
	NetCents   int64 `json:"net_cents"`

	TotalHours     string `json:"total_hours"`
	WeightedHours  string `json:"weighted_hours"`
	StandardHours  string `json:"standard_hours"`
	FullAttendance bool   `json:"full_attendance"`

	Breakdown []LineItem `json:"breakdown"`

	NeedsRecalc bool    `json:"needs_recalc"`
	LastError   *string `json:"last_error,omitempty"`
	ComputedAt  string  `json:"computed_at"`
}

func ToSnapshotResponse(s Snapshot) SnapshotResponse {
	return SnapshotResponse{
		EmployeeID:              s.EmployeeID,
		YearMonth:               s.YearMonth,
		BaseCents:               s.BaseCents,
		RegularAllowanceCents:   s.RegularAllowanceCents,
		IrregularAllowanceCents: s.IrregularAllowanceCents,
		RegularBonusCents:       s.RegularBonusCents,
		AttendanceBonusCents:    s.AttendanceBonusCents,
		PerformanceBonusCents:   s.PerformanceBonusCents,
		YearEndBonusCents:       s.YearEndBonusCents,
		OvertimeCents:           s.OvertimeCents,
		MealAllowanceCents:      s.MealAllowanceCents,
		TransportAllowanceCents: s.TransportAllowanceCents,
		FixedDeductionCents:     s.FixedDeductionCents,
		LeaveDeductionCents:     s.LeaveDeductionCents,
		GrossCents:              s.GrossCents,
		NetCents:                s.NetCents,
		TotalHours:              s.TotalHours.String(),
		WeightedHours:           s.WeightedHours.String(),
		StandardHours:           s.StandardHours.String(),
		FullAttendance:          s.FullAttendance,
		Breakdown:               s.Breakdown,
		NeedsRecalc:             s.NeedsRecalc,
		LastError:               s.LastError,
		ComputedAt:              s.ComputedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
