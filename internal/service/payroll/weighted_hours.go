package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/timesheet"
)

// HoursSummary is the output of the weighted-hours engine.
type HoursSummary struct {
	TotalHours    decimal.Decimal // raw logged hours
	WeightedHours decimal.Decimal // pay-bearing hours after multipliers and caps
	StandardHours decimal.Decimal // base 8-hour-day subset used for proration
}

type dayTypeKey struct {
	day      string
	workType timesheet.WorkTypeCode
}

var eightHours = decimal.NewFromInt(8)

// SummarizeHours converts raw time entries into weighted hours.
//
// Ordinary codes contribute hours x multiplier. Fixed-8h codes (the
// "within the legal cap" holiday/rest-day categories) contribute a
// single block of exactly 8 weighted hours per (date, work type) no
// matter how the raw hours are split across entries that day; hours
// past the cap live under a separate code.
func SummarizeHours(entries []timesheet.TimeEntry) HoursSummary {
	total := decimal.Zero
	weighted := decimal.Zero
	standard := decimal.Zero

	counted := make(map[dayTypeKey]bool)
	fixedDayTotals := make(map[dayTypeKey]decimal.Decimal)

	for _, entry := range entries {
		if entry.DeletedAt != nil {
			continue
		}
		rule := timesheet.RuleFor(entry.WorkType)
		total = total.Add(entry.Hours)

		if rule.SpecialFixed8h {
			key := dayTypeKey{day: dayKey(entry.WorkDate), workType: entry.WorkType}
			fixedDayTotals[key] = fixedDayTotals[key].Add(entry.Hours)
			if !counted[key] {
				counted[key] = true
				weighted = weighted.Add(eightHours)
			}
			continue
		}

		weighted = weighted.Add(entry.Hours.Mul(rule.Multiplier))
		if entry.WorkType == timesheet.WorkRegular {
			standard = standard.Add(entry.Hours)
		}
	}

	// Fixed-8h days count toward standard hours up to the cap.
	for _, dayTotal := range fixedDayTotals {
		if dayTotal.GreaterThan(eightHours) {
			standard = standard.Add(eightHours)
		} else {
			standard = standard.Add(dayTotal)
		}
	}

	return HoursSummary{
		TotalHours:    total,
		WeightedHours: weighted,
		StandardHours: standard,
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
