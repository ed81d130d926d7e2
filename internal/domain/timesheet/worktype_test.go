package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleFor_KnownCodes(t *testing.T) {
	cases := []struct {
		code       WorkTypeCode
		multiplier string
		overtime   bool
		fixed8h    bool
	}{
		{WorkRegular, "1", false, false},
		{OvertimeFirst2h, "1.34", true, false},
		{OvertimeBeyond2h, "1.67", true, false},
		{RestDayWithin8h, "1.34", true, true},
		{RestDayBeyond8h, "1.67", true, false},
		{HolidayWithin8h, "2", true, true},
		{HolidayBeyond8h, "2", true, false},
	}
	for _, c := range cases {
		rule := RuleFor(c.code)
		assert.Equal(t, c.multiplier, rule.Multiplier.String(), string(c.code))
		assert.Equal(t, c.overtime, rule.IsOvertime, string(c.code))
		assert.Equal(t, c.fixed8h, rule.SpecialFixed8h, string(c.code))
	}
}

func TestRuleFor_UnknownFailsOpen(t *testing.T) {
	rule := RuleFor(WorkTypeCode("night_shift"))

	assert.Equal(t, "1", rule.Multiplier.String())
	assert.False(t, rule.IsOvertime)
	assert.False(t, rule.SpecialFixed8h)
}

func TestKnownCode(t *testing.T) {
	assert.True(t, KnownCode(WorkRegular))
	assert.False(t, KnownCode(WorkTypeCode("night_shift")))
}
