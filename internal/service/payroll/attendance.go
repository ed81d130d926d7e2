package payroll

import (
	"time"

	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
)

// FullAttendance reports whether the employee qualifies for the
// full-attendance bonus in the month: no sick or personal leave,
// approved or still pending, touching the month. Menstrual and
// compensatory leave do not break attendance.
func FullAttendance(requests []leave.Request, year int, month time.Month) bool {
	for _, req := range requests {
		if !req.Countable() {
			continue
		}
		if req.Type != leave.TypeSick && req.Type != leave.TypePersonal {
			continue
		}
		if req.HoursInMonth(year, month).IsPositive() {
			return false
		}
	}
	return true
}
