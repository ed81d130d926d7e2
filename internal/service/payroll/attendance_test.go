package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tallyworks/payroll-backend-go/internal/domain/leave"
)

func TestFullAttendance_NoLeave(t *testing.T) {
	assert.True(t, FullAttendance(nil, 2025, time.November))
}

func TestFullAttendance_SickBreaks(t *testing.T) {
	requests := []leave.Request{
		hourRequest(leave.TypeSick, "2025-11-10", 2, leave.StatusApproved),
	}
	assert.False(t, FullAttendance(requests, 2025, time.November))
}

func TestFullAttendance_PendingPersonalBreaks(t *testing.T) {
	requests := []leave.Request{
		hourRequest(leave.TypePersonal, "2025-11-10", 1, leave.StatusPending),
	}
	assert.False(t, FullAttendance(requests, 2025, time.November))
}

func TestFullAttendance_MenstrualAndCompDoNotBreak(t *testing.T) {
	requests := []leave.Request{
		dayRequest(leave.TypeMenstrual, "2025-11-10", "2025-11-10", 1, leave.StatusApproved),
		hourRequest(leave.TypeCompensatory, "2025-11-12", 8, leave.StatusApproved),
	}
	assert.True(t, FullAttendance(requests, 2025, time.November))
}

func TestFullAttendance_RejectedIgnored(t *testing.T) {
	requests := []leave.Request{
		hourRequest(leave.TypeSick, "2025-11-10", 8, leave.StatusRejected),
	}
	assert.True(t, FullAttendance(requests, 2025, time.November))
}

func TestFullAttendance_LeaveOutsideMonthIgnored(t *testing.T) {
	requests := []leave.Request{
		hourRequest(leave.TypeSick, "2025-10-15", 8, leave.StatusApproved),
	}
	assert.True(t, FullAttendance(requests, 2025, time.November))
}
