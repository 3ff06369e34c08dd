package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/handler/http/response"
	"github.com/staffsync/hrops-backend-go/internal/pkg/validator"
	employeesvc "github.com/staffsync/hrops-backend-go/internal/service/employee"
)

type EmployeeHandler struct {
	svc *employeesvc.Service
}

func NewEmployeeHandler(svc *employeesvc.Service) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid employee id", nil)
		return
	}

	resp, err := h.svc.GetByID(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	q := r.URL.Query()
	filter := employee.EmployeeFilter{Search: q.Get("search")}
	if dept := q.Get("department"); dept != "" {
		filter.Department = &dept
	}
	if raw := q.Get("is_active"); raw != "" {
		active := validator.ParseBool(raw)
		filter.IsActive = &active
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	resp, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, resp.Employees, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: totalPages(resp.TotalCount, resp.Limit),
	})
}

func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := h.svc.Deactivate(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deactivated", nil)
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
