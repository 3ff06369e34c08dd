package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
	"github.com/staffsync/hrops-backend-go/internal/handler/http/response"
	"github.com/staffsync/hrops-backend-go/internal/pkg/validator"
)

type LeaveHandler struct {
	requestSvc leave.LeaveRequestService
	ledger     leave.BalanceLedger
}

func NewLeaveHandler(requestSvc leave.LeaveRequestService, ledger leave.BalanceLedger) *LeaveHandler {
	return &LeaveHandler{requestSvc: requestSvc, ledger: ledger}
}

func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(req.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "required"})
	}
	if _, ok := validator.IsValidDate(req.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	if _, ok := validator.IsValidDate(req.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	resp, err := h.requestSvc.Create(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", resp)
}

func (h *LeaveHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	resp, err := h.requestSvc.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := leave.LeaveRequestFilter{
		Status:     leave.LeaveRequestStatus(r.URL.Query().Get("status")),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		filter.Offset = offset
	}

	resp, err := h.requestSvc.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *LeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	opts := leave.ApproveOptions{
		AllowOverdraft: validator.ParseBool(r.URL.Query().Get("allow_overdraft")),
	}

	resp, err := h.requestSvc.Approve(r.Context(), actor, chi.URLParam(r, "id"), opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request approved", resp)
}

func (h *LeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.RejectLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.requestSvc.Reject(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request rejected", resp)
}

func (h *LeaveHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	resp, err := h.requestSvc.Cancel(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled", resp)
}

func (h *LeaveHandler) MyBalances(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	balances, err := h.ledger.ListBalances(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]*leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, b.ToResponse())
	}
	response.Success(w, responses)
}

type allocateRequest struct {
	EmployeeID    string `json:"employee_id" validate:"required"`
	LeaveTypeID   string `json:"leave_type_id" validate:"required"`
	AllocatedDays int    `json:"allocated_days"`
}

func (h *LeaveHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if validator.IsEmpty(req.EmployeeID) || validator.IsEmpty(req.LeaveTypeID) {
		response.BadRequest(w, "employee_id and leave_type_id are required", nil)
		return
	}

	if err := h.ledger.Allocate(r.Context(), req.EmployeeID, req.LeaveTypeID, req.AllocatedDays); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Balance allocated", nil)
}
