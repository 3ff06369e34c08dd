package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/attendance"
	"github.com/staffsync/hrops-backend-go/internal/handler/http/response"
	"github.com/staffsync/hrops-backend-go/internal/pkg/validator"
)

type AttendanceHandler struct {
	svc attendance.AttendanceService
}

func NewAttendanceHandler(svc attendance.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

func (h *AttendanceHandler) CreateBackdate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.BackdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.svc.CreateBackdate(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance correction submitted", resp)
}

func (h *AttendanceHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	resp, err := h.svc.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance correction approved", resp)
}

func (h *AttendanceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.svc.Reject(r.Context(), actor, chi.URLParam(r, "id"), req.Reason); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance correction rejected", nil)
}

func (h *AttendanceHandler) BulkMark(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.BulkMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.EmployeeIDs) == 0 {
		response.BadRequest(w, "employee_ids must not be empty", nil)
		return
	}

	result, err := h.svc.BulkMark(r.Context(), actor, &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance marked", result)
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := attendance.Filter{
		EmployeeID: r.URL.Query().Get("employee_id"),
	}
	if from, ok := validator.IsValidDate(r.URL.Query().Get("from")); ok {
		filter.From = &from
	}
	if to, ok := validator.IsValidDate(r.URL.Query().Get("to")); ok {
		filter.To = &to
	}
	if raw := r.URL.Query().Get("pending"); raw != "" {
		pending := validator.ParseBool(raw)
		filter.PendingApproval = &pending
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		filter.Offset = offset
	}

	resp, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *AttendanceHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	resp, err := h.svc.ListPending(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
