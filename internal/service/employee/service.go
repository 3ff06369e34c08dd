package employee

import (
	"context"
	"fmt"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

type Service struct {
	employeeRepo employee.EmployeeRepository
}

func NewService(employeeRepo employee.EmployeeRepository) *Service {
	return &Service{employeeRepo: employeeRepo}
}

func (s *Service) GetByID(ctx context.Context, actor employee.Actor, id string) (*employee.EmployeeResponse, error) {
	if actor.Role == employee.RoleEmployee && actor.EmployeeID != id {
		return nil, employee.ErrUnauthorized
	}
	emp, err := s.employeeRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return toResponse(emp), nil
}

func (s *Service) List(ctx context.Context, actor employee.Actor, filter employee.EmployeeFilter) (*employee.ListEmployeeResponse, error) {
	if actor.Role == employee.RoleEmployee {
		return nil, employee.ErrUnauthorized
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	employees, total, err := s.employeeRepo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, *toResponse(emp))
	}
	return &employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Employees:  responses,
	}, nil
}

// Deactivate offboards an employee. Rows are never deleted; every
// request and attendance record stays attributable.
func (s *Service) Deactivate(ctx context.Context, actor employee.Actor, id string) error {
	if !actor.Role.Outranks(employee.RoleReportingManager) {
		return employee.ErrUnauthorized
	}
	return s.employeeRepo.Deactivate(ctx, id, actor.CompanyID)
}

func toResponse(emp employee.Employee) *employee.EmployeeResponse {
	resp := &employee.EmployeeResponse{
		ID:                 emp.ID,
		CompanyID:          emp.CompanyID,
		Email:              emp.Email,
		FullName:           emp.FullName,
		Role:               string(emp.Role),
		Department:         emp.Department,
		Position:           emp.Position,
		ReportingManagerID: emp.ReportingManagerID,
		IsActive:           emp.IsActive,
	}
	if emp.HireDate != nil {
		hd := emp.HireDate.Format("2006-01-02")
		resp.HireDate = &hd
	}
	return resp
}
