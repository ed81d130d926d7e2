package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tallyworks/payroll-backend-go/internal/domain/payroll"
	"github.com/tallyworks/payroll-backend-go/internal/handler/http/response"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	// Snapshots
	ComputePayroll(w http.ResponseWriter, r *http.Request)
	GetCachedPayroll(w http.ResponseWriter, r *http.Request)
	RecomputeMonth(w http.ResponseWriter, r *http.Request)

	// Recalculation queue
	EnqueueRecalculation(w http.ResponseWriter, r *http.Request)
	ProcessRecalcQueue(w http.ResponseWriter, r *http.Request)
	ClearRecalculation(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	recalcService  payroll.RecalcService
}

func NewPayrollHandler(payrollService payroll.PayrollService, recalcService payroll.RecalcService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		recalcService:  recalcService,
	}
}

// ========== SNAPSHOTS ==========

func (h *payrollHandlerImpl) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	yearMonth := chi.URLParam(r, "yearMonth")
	if employeeID == "" || yearMonth == "" {
		response.BadRequest(w, "Employee ID and year month are required", nil)
		return
	}

	result, err := h.payrollService.Compute(r.Context(), employeeID, yearMonth)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.ToSnapshotResponse(result))
}

func (h *payrollHandlerImpl) GetCachedPayroll(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	yearMonth := chi.URLParam(r, "yearMonth")
	if employeeID == "" || yearMonth == "" {
		response.BadRequest(w, "Employee ID and year month are required", nil)
		return
	}

	result, err := h.payrollService.GetCached(r.Context(), employeeID, yearMonth)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.NotFound(w, "Payroll snapshot not found")
		return
	}

	response.Success(w, payroll.ToSnapshotResponse(*result))
}

func (h *payrollHandlerImpl) RecomputeMonth(w http.ResponseWriter, r *http.Request) {
	yearMonth := chi.URLParam(r, "yearMonth")
	if !validator.IsValidYearMonth(yearMonth) {
		response.BadRequest(w, "year_month must be formatted as YYYY-MM", nil)
		return
	}

	result, err := h.payrollService.RecomputeMonth(r.Context(), yearMonth)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== RECALCULATION QUEUE ==========

func (h *payrollHandlerImpl) EnqueueRecalculation(w http.ResponseWriter, r *http.Request) {
	var req payroll.EnqueueRecalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	referenceDate, _ := time.Parse("2006-01-02", req.ReferenceDate)
	kind := payroll.ChangeKind(req.ChangeKind)
	if err := h.recalcService.Enqueue(r.Context(), req.EmployeeID, referenceDate, kind, req.Reason); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Recalculation enqueued", nil)
}

func (h *payrollHandlerImpl) ProcessRecalcQueue(w http.ResponseWriter, r *http.Request) {
	req := payroll.ProcessQueueRequest{Limit: 50}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	outcomes, err := h.recalcService.Process(r.Context(), req.YearMonth, req.Limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, outcomes)
}

func (h *payrollHandlerImpl) ClearRecalculation(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	yearMonth := chi.URLParam(r, "yearMonth")
	if employeeID == "" || !validator.IsValidYearMonth(yearMonth) {
		response.BadRequest(w, "Employee ID and year month are required", nil)
		return
	}

	if err := h.recalcService.Clear(r.Context(), employeeID, yearMonth); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recalculation cleared", nil)
}
