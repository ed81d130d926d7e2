package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func request(unit Unit, start, end string, amount float64, status Status) Request {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return Request{
		Type:      TypePersonal,
		StartDate: s,
		EndDate:   e,
		Unit:      unit,
		Amount:    decimal.NewFromFloat(amount),
		Status:    status,
	}
}

func TestHoursInMonth_SingleDateHours(t *testing.T) {
	r := request(UnitHours, "2025-11-10", "2025-11-10", 3, StatusApproved)

	assert.Equal(t, "3", r.HoursInMonth(2025, time.November).String())
	assert.True(t, r.HoursInMonth(2025, time.October).IsZero())
}

func TestHoursInMonth_SingleDateDays(t *testing.T) {
	r := request(UnitDay, "2025-11-10", "2025-11-10", 1, StatusApproved)

	assert.Equal(t, "8", r.HoursInMonth(2025, time.November).String())
}

func TestHoursInMonth_RangeWithinMonth(t *testing.T) {
	r := request(UnitDay, "2025-11-10", "2025-11-12", 3, StatusApproved)

	assert.Equal(t, "24", r.HoursInMonth(2025, time.November).String())
	assert.Equal(t, "3", r.DaysInMonth(2025, time.November).String())
}

func TestHoursInMonth_RangeStraddlesMonths(t *testing.T) {
	// Oct 30 - Nov 2: two days land in each month.
	r := request(UnitDay, "2025-10-30", "2025-11-02", 4, StatusApproved)

	assert.Equal(t, "16", r.HoursInMonth(2025, time.October).String())
	assert.Equal(t, "16", r.HoursInMonth(2025, time.November).String())
	assert.True(t, r.HoursInMonth(2025, time.December).IsZero())
}

func TestCountable(t *testing.T) {
	assert.True(t, request(UnitDay, "2025-11-10", "2025-11-10", 1, StatusApproved).Countable())
	assert.True(t, request(UnitDay, "2025-11-10", "2025-11-10", 1, StatusPending).Countable())
	assert.False(t, request(UnitDay, "2025-11-10", "2025-11-10", 1, StatusRejected).Countable())
}

func TestDeductionBearing(t *testing.T) {
	for _, reqType := range []RequestType{TypeSick, TypePersonal, TypeMenstrual} {
		r := Request{Type: reqType}
		assert.True(t, r.DeductionBearing(), string(reqType))
	}
	for _, reqType := range []RequestType{TypeCompensatory, TypeAnnual} {
		r := Request{Type: reqType}
		assert.False(t, r.DeductionBearing(), string(reqType))
	}
}
