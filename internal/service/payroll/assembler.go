package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/employee"
	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/domain/salaryitem"
	"github.com/tallyworks/payroll-backend-go/internal/domain/timesheet"
	"github.com/tallyworks/payroll-backend-go/internal/domain/trip"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

// ComputationInput is the full source-of-truth state one snapshot is
// assembled from. The assembler is a pure function of this input, so
// two racing recomputations of the same month converge on the same
// content.
type ComputationInput struct {
	Employee              employee.Employee
	Entries               []timesheet.TimeEntry
	LeaveRequests         []leave.Request
	Items                 []salaryitem.Item
	PerformanceAdjustment *salaryitem.PerformanceAdjustment
	Trips                 []trip.BusinessTrip
	OvertimeCents         int64 // the month's comp-time conversion total
	PriorMenstrualDays    decimal.Decimal
}

// Assemble combines the rule engines and the configured salary items
// into one snapshot. Every line item is rounded to cents on its own
// before summation.
func Assemble(in ComputationInput, cfg payroll.CalcConfig, year int, month time.Month) payroll.Snapshot {
	hours := SummarizeHours(in.Entries)
	fullAttendance := FullAttendance(in.LeaveRequests, year, month)

	s := payroll.Snapshot{
		EmployeeID:     in.Employee.ID,
		YearMonth:      validator.FormatYearMonth(year, month),
		BaseCents:      in.Employee.BaseSalaryCents,
		OvertimeCents:  in.OvertimeCents,
		TotalHours:     hours.TotalHours,
		WeightedHours:  hours.WeightedHours,
		StandardHours:  hours.StandardHours,
		FullAttendance: fullAttendance,
	}
	s.Breakdown = append(s.Breakdown, payroll.LineItem{
		Code: "base", Name: "Base salary", AmountCents: s.BaseCents,
	})

	performanceDefault := int64(0)
	for _, item := range in.Items {
		if !ShouldPayInMonth(item, year, month) {
			continue
		}
		switch item.Category {
		case salaryitem.CategoryRegularAllowance:
			s.RegularAllowanceCents += item.AmountCents
			s.Breakdown = append(s.Breakdown, payroll.LineItem{
				Code: "regular_allowance", Name: item.Name, AmountCents: item.AmountCents,
			})
		case salaryitem.CategoryIrregularAllowance:
			s.IrregularAllowanceCents += item.AmountCents
			s.Breakdown = append(s.Breakdown, payroll.LineItem{
				Code: "irregular_allowance", Name: item.Name, AmountCents: item.AmountCents,
			})
		case salaryitem.CategoryRegularBonus:
			s.RegularBonusCents += item.AmountCents
			s.Breakdown = append(s.Breakdown, payroll.LineItem{
				Code: "regular_bonus", Name: item.Name, AmountCents: item.AmountCents,
			})
		case salaryitem.CategoryFullAttendanceBonus:
			if fullAttendance {
				s.AttendanceBonusCents += item.AmountCents
				s.Breakdown = append(s.Breakdown, payroll.LineItem{
					Code: "attendance_bonus", Name: item.Name, AmountCents: item.AmountCents,
				})
			}
		case salaryitem.CategoryPerformanceBonus:
			performanceDefault += item.AmountCents
		case salaryitem.CategoryYearEndBonus:
			s.YearEndBonusCents += item.AmountCents
			s.Breakdown = append(s.Breakdown, payroll.LineItem{
				Code: "year_end_bonus", Name: item.Name, AmountCents: item.AmountCents,
			})
		case salaryitem.CategoryDeduction:
			s.FixedDeductionCents += item.AmountCents
			s.Breakdown = append(s.Breakdown, payroll.LineItem{
				Code: "deduction", Name: item.Name, AmountCents: -item.AmountCents,
			})
		}
	}

	// An explicit monthly adjustment wins over the configured default.
	s.PerformanceBonusCents = performanceDefault
	if in.PerformanceAdjustment != nil {
		s.PerformanceBonusCents = in.PerformanceAdjustment.AmountCents
	}
	if s.PerformanceBonusCents != 0 {
		s.Breakdown = append(s.Breakdown, payroll.LineItem{
			Code: "performance_bonus", Name: "Performance bonus", AmountCents: s.PerformanceBonusCents,
		})
	}

	if s.OvertimeCents != 0 {
		s.Breakdown = append(s.Breakdown, payroll.LineItem{
			Code: "overtime", Name: "Overtime cash conversion", AmountCents: s.OvertimeCents,
		})
	}

	s.MealAllowanceCents = MealAllowanceCents(in.Entries, cfg)
	if s.MealAllowanceCents != 0 {
		s.Breakdown = append(s.Breakdown, payroll.LineItem{
			Code: "meal_allowance", Name: "Meal allowance", AmountCents: s.MealAllowanceCents,
		})
	}

	s.TransportAllowanceCents = TransportAllowanceCents(in.Trips, cfg)
	if s.TransportAllowanceCents != 0 {
		s.Breakdown = append(s.Breakdown, payroll.LineItem{
			Code: "transport_allowance", Name: "Transport allowance", AmountCents: s.TransportAllowanceCents,
		})
	}

	deduction := DeductLeave(LeaveDeductionInput{
		Requests:              in.LeaveRequests,
		BaseSalaryCents:       in.Employee.BaseSalaryCents,
		RegularAllowanceCents: s.RegularAllowanceCents,
		PriorMenstrualDays:    in.PriorMenstrualDays,
	}, cfg, year, month)
	s.LeaveDeductionCents = deduction.TotalCents
	if s.LeaveDeductionCents != 0 {
		s.Breakdown = append(s.Breakdown, payroll.LineItem{
			Code: "leave_deduction", Name: "Leave deduction", AmountCents: -s.LeaveDeductionCents,
		})
	}

	s.RecomputeTotals()
	return s
}
