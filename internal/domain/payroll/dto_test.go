package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSnapshotResponse_CarriesHours(t *testing.T) {
	s := Snapshot{
		EmployeeID:    "emp-1",
		YearMonth:     "2025-11",
		TotalHours:    decimal.NewFromFloat(171),
		WeightedHours: decimal.NewFromFloat(172.35),
		StandardHours: decimal.NewFromFloat(168),
	}

	got := ToSnapshotResponse(s)

	assert.Equal(t, "171", got.TotalHours)
	assert.Equal(t, "172.35", got.WeightedHours)
	assert.Equal(t, "168", got.StandardHours)
}

func TestEnqueueRecalculationRequest_Validate(t *testing.T) {
	valid := EnqueueRecalculationRequest{
		EmployeeID:    "emp-1",
		ReferenceDate: "2025-11-03",
		Reason:        "time entry changed",
	}
	require.NoError(t, valid.Validate())

	withKind := valid
	withKind.ChangeKind = string(ChangeOvertime)
	require.NoError(t, withKind.Validate())

	badKind := valid
	badKind.ChangeKind = "salary"
	assert.Error(t, badKind.Validate())

	badDate := valid
	badDate.ReferenceDate = "2025-13-40"
	assert.Error(t, badDate.Validate())
}
