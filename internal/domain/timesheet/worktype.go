package timesheet

import "github.com/shopspring/decimal"

// WorkTypeCode identifies how a block of hours is paid.
type WorkTypeCode string

const (
	WorkRegular      WorkTypeCode = "regular"
	OvertimeFirst2h  WorkTypeCode = "overtime_first_2h"
	OvertimeBeyond2h WorkTypeCode = "overtime_beyond_2h"
	RestDayWithin8h  WorkTypeCode = "rest_day_within_8h"
	RestDayBeyond8h  WorkTypeCode = "rest_day_beyond_8h"
	HolidayWithin8h  WorkTypeCode = "holiday_within_8h"
	HolidayBeyond8h  WorkTypeCode = "holiday_beyond_8h"
)

// WorkTypeRule describes the pay behavior of a work-type code.
// SpecialFixed8h marks the "within the legal 8-hour cap" categories:
// all entries of that code on one day contribute a single capped block
// of 8 weighted hours, no matter how the raw hours are split. Hours
// beyond the cap are logged under the matching "beyond" code.
type WorkTypeRule struct {
	Code           WorkTypeCode
	Multiplier     decimal.Decimal
	IsOvertime     bool
	DailyCapHours  *decimal.Decimal
	SpecialFixed8h bool
}

var eight = decimal.NewFromInt(8)

// catalog is static configuration; it is never mutated at runtime.
var catalog = map[WorkTypeCode]WorkTypeRule{
	WorkRegular: {
		Code:       WorkRegular,
		Multiplier: decimal.NewFromInt(1),
	},
	OvertimeFirst2h: {
		Code:       OvertimeFirst2h,
		Multiplier: decimal.NewFromFloat(1.34),
		IsOvertime: true,
	},
	OvertimeBeyond2h: {
		Code:       OvertimeBeyond2h,
		Multiplier: decimal.NewFromFloat(1.67),
		IsOvertime: true,
	},
	RestDayWithin8h: {
		Code:           RestDayWithin8h,
		Multiplier:     decimal.NewFromFloat(1.34),
		IsOvertime:     true,
		DailyCapHours:  &eight,
		SpecialFixed8h: true,
	},
	RestDayBeyond8h: {
		Code:       RestDayBeyond8h,
		Multiplier: decimal.NewFromFloat(1.67),
		IsOvertime: true,
	},
	HolidayWithin8h: {
		Code:           HolidayWithin8h,
		Multiplier:     decimal.NewFromInt(2),
		IsOvertime:     true,
		DailyCapHours:  &eight,
		SpecialFixed8h: true,
	},
	HolidayBeyond8h: {
		Code:       HolidayBeyond8h,
		Multiplier: decimal.NewFromInt(2),
		IsOvertime: true,
	},
}

// RuleFor resolves the pay rule for a code. Unknown codes fail open:
// raw hours at multiplier 1, no overtime, no cap. Callers validate
// codes upstream; the engines must not reject stored data.
func RuleFor(code WorkTypeCode) WorkTypeRule {
	if rule, ok := catalog[code]; ok {
		return rule
	}
	return WorkTypeRule{Code: code, Multiplier: decimal.NewFromInt(1)}
}

// KnownCode reports whether the code exists in the catalog.
func KnownCode(code WorkTypeCode) bool {
	_, ok := catalog[code]
	return ok
}
