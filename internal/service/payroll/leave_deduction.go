package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/money"
)

// LeaveDeductionInput carries everything the deduction rules need;
// the engine itself touches no store.
type LeaveDeductionInput struct {
	Requests              []leave.Request // overlapping the month, any status
	BaseSalaryCents       int64
	RegularAllowanceCents int64
	// Menstrual days already taken this calendar year before the
	// target month; determines how much of the annual free budget is
	// left.
	PriorMenstrualDays decimal.Decimal
}

// LeaveDeductionResult itemizes the computed deduction.
type LeaveDeductionResult struct {
	HourlyRateCents int64
	DailyRateCents  int64

	SickCents      int64
	PersonalCents  int64
	MenstrualCents int64
	TotalCents     int64

	MenstrualFreeDays    decimal.Decimal // days waived this month
	MenstrualChargedDays decimal.Decimal // days deducted (merged)
}

// DeductLeave computes the salary deduction for sick, personal and
// menstrual leave in the month. Pending and approved requests both
// deduct; rejected ones are ignored.
//
// The first N menstrual days per calendar year (default 3) are free:
// no deduction and no merge into the deducted-leave count. Days beyond
// the remaining free budget deduct at the menstrual rate.
func DeductLeave(in LeaveDeductionInput, cfg payroll.CalcConfig, year int, month time.Month) LeaveDeductionResult {
	hourlyRate := money.DivInt(in.BaseSalaryCents+in.RegularAllowanceCents, cfg.HourlyRateDivisor)
	dailyRate := money.DivInt(in.BaseSalaryCents+in.RegularAllowanceCents, cfg.DailySalaryDivisor)

	result := LeaveDeductionResult{
		HourlyRateCents: hourlyRate,
		DailyRateCents:  dailyRate,
	}

	sickHours := decimal.Zero
	personalHours := decimal.Zero
	menstrualDays := decimal.Zero

	for _, req := range in.Requests {
		if !req.Countable() || !req.DeductionBearing() {
			continue
		}
		switch req.Type {
		case leave.TypeSick:
			sickHours = sickHours.Add(req.HoursInMonth(year, month))
		case leave.TypePersonal:
			personalHours = personalHours.Add(req.HoursInMonth(year, month))
		case leave.TypeMenstrual:
			menstrualDays = menstrualDays.Add(req.DaysInMonth(year, month))
		}
	}

	result.SickCents = money.Round(sickHours.
		Mul(decimal.NewFromInt(hourlyRate)).
		Mul(cfg.SickRate))
	result.PersonalCents = money.Round(personalHours.
		Mul(decimal.NewFromInt(hourlyRate)).
		Mul(cfg.PersonalRate))

	// Remaining free budget = max(0, freeDays - prior year-to-date).
	freeBudget := decimal.NewFromInt(cfg.MenstrualFreeDays).Sub(in.PriorMenstrualDays)
	if freeBudget.IsNegative() {
		freeBudget = decimal.Zero
	}
	freeUsed := menstrualDays
	if freeUsed.GreaterThan(freeBudget) {
		freeUsed = freeBudget
	}
	charged := menstrualDays.Sub(freeUsed)

	result.MenstrualFreeDays = freeUsed
	result.MenstrualChargedDays = charged
	result.MenstrualCents = money.Round(charged.
		Mul(eightHours).
		Mul(decimal.NewFromInt(hourlyRate)).
		Mul(cfg.MenstrualRate))

	result.TotalCents = result.SickCents + result.PersonalCents + result.MenstrualCents
	return result
}
