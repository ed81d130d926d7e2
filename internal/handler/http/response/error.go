package response

import (
	"errors"
	"net/http"

	"github.com/tallyworks/payroll-backend-go/internal/domain/comptime"
	"github.com/tallyworks/payroll-backend-go/internal/domain/employee"
	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSnapshotNotFound):
		NotFound(w, "Payroll snapshot not found")
	case errors.Is(err, payroll.ErrTaskNotFound):
		NotFound(w, "Recalculation task not found")
	case errors.Is(err, payroll.ErrInvalidYearMonth):
		BadRequest(w, "year_month must be formatted as YYYY-MM", nil)
	case errors.Is(err, payroll.ErrEmployeeNotActive):
		Conflict(w, "Employee is not active for payroll")

	// Comp time domain errors
	case errors.Is(err, comptime.ErrGrantNotFound):
		NotFound(w, "Compensatory grant not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
