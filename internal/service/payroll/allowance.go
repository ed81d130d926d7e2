package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/domain/timesheet"
	"github.com/tallyworks/payroll-backend-go/internal/domain/trip"
)

// MealAllowanceCents pays a fixed amount per day that reached the
// configured minimum of first-2-hours overtime (default 1.5h).
func MealAllowanceCents(entries []timesheet.TimeEntry, cfg payroll.CalcConfig) int64 {
	perDay := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		if entry.DeletedAt != nil || entry.WorkType != timesheet.OvertimeFirst2h {
			continue
		}
		key := dayKey(entry.WorkDate)
		perDay[key] = perDay[key].Add(entry.Hours)
	}

	days := int64(0)
	for _, hours := range perDay {
		if hours.GreaterThanOrEqual(cfg.MealMinOvertimeHours) {
			days++
		}
	}
	return days * cfg.MealPerTimeCents
}

// TransportAllowanceCents pays per started distance interval of each
// approved trip: a partial interval consumes a full unit (ceil).
func TransportAllowanceCents(trips []trip.BusinessTrip, cfg payroll.CalcConfig) int64 {
	intervals := int64(0)
	for _, t := range trips {
		if t.Status != trip.StatusApproved {
			continue
		}
		if !t.DistanceKm.IsPositive() {
			continue
		}
		intervals += t.DistanceKm.Div(cfg.KmPerInterval).Ceil().IntPart()
	}
	return intervals * cfg.AmountPerIntervalCents
}
