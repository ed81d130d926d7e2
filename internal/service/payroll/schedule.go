package payroll

import (
	"time"

	"github.com/tallyworks/payroll-backend-go/internal/domain/salaryitem"
)

// ShouldPayInMonth decides whether a configured salary item pays out
// in the target month.
//
//   - monthly: pays any month inside the effective window
//   - once: pays only in the month of its effective date
//   - yearly: pays when the target month number is in the configured
//     list and the window still covers the month
//
// Year-end bonuses are explicit per-year records paid only in their
// configured payment month of their configured year.
func ShouldPayInMonth(item salaryitem.Item, year int, month time.Month) bool {
	if item.Category == salaryitem.CategoryYearEndBonus {
		if item.Year == nil || item.PaymentMonth == nil {
			return false
		}
		return *item.Year == year && *item.PaymentMonth == int(month)
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	// Effective window: item must have started before the month ends
	// and must not have expired before the month starts.
	if !item.EffectiveDate.Before(monthEnd) {
		return false
	}
	if item.ExpiryDate != nil && item.ExpiryDate.Before(monthStart) {
		return false
	}

	switch item.Recurrence {
	case salaryitem.RecurrenceMonthly:
		return true
	case salaryitem.RecurrenceOnce:
		return item.EffectiveDate.Year() == year && item.EffectiveDate.Month() == month
	case salaryitem.RecurrenceYearly:
		for _, m := range item.MonthsOfYear {
			if m == int(month) {
				return true
			}
		}
		return false
	}
	return false
}
