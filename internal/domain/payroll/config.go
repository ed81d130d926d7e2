package payroll

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CalcConfig is the configuration value object resolved once per
// computation from the settings store. Engines receive it as a value;
// nothing reads settings mid-algorithm.
type CalcConfig struct {
	HourlyRateDivisor  int64 // (base + regular allowance) / divisor -> hourly rate
	DailySalaryDivisor int64 // independent ratio, not derived from the hourly one

	SickRate      decimal.Decimal
	PersonalRate  decimal.Decimal
	MenstrualRate decimal.Decimal

	MenstrualFreeDays int64 // free days per calendar year

	MealMinOvertimeHours decimal.Decimal
	MealPerTimeCents     int64

	KmPerInterval          decimal.Decimal
	AmountPerIntervalCents int64

	CompExpiryMonths int
}

// Setting keys understood by ResolveCalcConfig.
const (
	KeyHourlyRateDivisor      = "payroll.hourly_rate_divisor"
	KeyDailySalaryDivisor     = "payroll.daily_salary_divisor"
	KeySickRate               = "payroll.sick_rate"
	KeyPersonalRate           = "payroll.personal_rate"
	KeyMenstrualRate          = "payroll.menstrual_rate"
	KeyMenstrualFreeDays      = "payroll.menstrual_free_days"
	KeyMealMinOvertimeHours   = "payroll.meal_min_overtime_hours"
	KeyMealPerTimeCents       = "payroll.meal_per_time_cents"
	KeyKmPerInterval          = "payroll.km_per_interval"
	KeyAmountPerIntervalCents = "payroll.amount_per_interval_cents"
	KeyCompExpiryMonths       = "payroll.comp_expiry_months"
)

// DefaultCalcConfig returns the documented defaults, used whenever a
// setting is absent from the store.
func DefaultCalcConfig() CalcConfig {
	return CalcConfig{
		HourlyRateDivisor:      240,
		DailySalaryDivisor:     30,
		SickRate:               decimal.NewFromFloat(0.5),
		PersonalRate:           decimal.NewFromInt(1),
		MenstrualRate:          decimal.NewFromFloat(0.5),
		MenstrualFreeDays:      3,
		MealMinOvertimeHours:   decimal.NewFromFloat(1.5),
		MealPerTimeCents:       10000,
		KmPerInterval:          decimal.NewFromInt(5),
		AmountPerIntervalCents: 6000,
		CompExpiryMonths:       6,
	}
}

// ResolveCalcConfig overlays stored values on the defaults. Malformed
// values fall back to the default rather than poisoning a computation.
func ResolveCalcConfig(values map[string]string) CalcConfig {
	cfg := DefaultCalcConfig()

	if v, ok := parseInt(values[KeyHourlyRateDivisor]); ok && v > 0 {
		cfg.HourlyRateDivisor = v
	}
	if v, ok := parseInt(values[KeyDailySalaryDivisor]); ok && v > 0 {
		cfg.DailySalaryDivisor = v
	}
	if v, ok := parseDecimal(values[KeySickRate]); ok {
		cfg.SickRate = v
	}
	if v, ok := parseDecimal(values[KeyPersonalRate]); ok {
		cfg.PersonalRate = v
	}
	if v, ok := parseDecimal(values[KeyMenstrualRate]); ok {
		cfg.MenstrualRate = v
	}
	if v, ok := parseInt(values[KeyMenstrualFreeDays]); ok && v >= 0 {
		cfg.MenstrualFreeDays = v
	}
	if v, ok := parseDecimal(values[KeyMealMinOvertimeHours]); ok {
		cfg.MealMinOvertimeHours = v
	}
	if v, ok := parseInt(values[KeyMealPerTimeCents]); ok && v >= 0 {
		cfg.MealPerTimeCents = v
	}
	if v, ok := parseDecimal(values[KeyKmPerInterval]); ok && v.IsPositive() {
		cfg.KmPerInterval = v
	}
	if v, ok := parseInt(values[KeyAmountPerIntervalCents]); ok && v >= 0 {
		cfg.AmountPerIntervalCents = v
	}
	if v, ok := parseInt(values[KeyCompExpiryMonths]); ok && v > 0 {
		cfg.CompExpiryMonths = int(v)
	}

	return cfg
}

func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	return v, err == nil
}
