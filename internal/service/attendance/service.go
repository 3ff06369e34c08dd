package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/attendance"
	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
	"github.com/staffsync/hrops-backend-go/internal/pkg/metrics"
	"github.com/staffsync/hrops-backend-go/internal/repository/postgresql"
)

const autoApprovalActor = "system"

type Service struct {
	db             *database.DB
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewService(db *database.DB, attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository) *Service {
	return &Service{
		db:             db,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

func (s *Service) CreateBackdate(ctx context.Context, actor employee.Actor, req *attendance.BackdateRequest) (*attendance.AttendanceResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	today := time.Now().Truncate(24 * time.Hour)
	if date.After(today) {
		return nil, attendance.ErrFutureDate
	}

	status := attendance.Status(req.Status)
	if !status.IsValid() {
		return nil, attendance.ErrInvalidStatus
	}
	if strings.TrimSpace(req.ChangeReason) == "" {
		return nil, attendance.ErrChangeReasonRequired
	}

	checkIn, err := parseClockTime(date, req.CheckInTime)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseClockTime(date, req.CheckOutTime)
	if err != nil {
		return nil, err
	}
	if (checkIn != nil || checkOut != nil) && !status.ImpliesPresence() {
		return nil, attendance.ErrClockTimesNeedPresence
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return nil, attendance.ErrCheckOutBeforeCheckIn
	}

	record := &attendance.Attendance{
		EmployeeID:    actor.EmployeeID,
		CompanyID:     actor.CompanyID,
		Date:          date,
		Status:        status,
		CheckInTime:   checkIn,
		CheckOutTime:  checkOut,
		RequestorRole: actor.Role,
		ChangeReason:  req.ChangeReason,
		MarkedBy:      &actor.EmployeeID,
	}

	if employee.IsAutoApproved(actor.Role) {
		// Super admin corrections take effect immediately.
		now := time.Now()
		record.PendingApproval = false
		record.ApprovedBy = &actor.EmployeeID
		record.ApprovedAt = &now
	} else {
		record.PendingApproval = true
	}

	if err := s.attendanceRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	outcome := "correction_submitted"
	if !record.PendingApproval {
		outcome = "correction_applied"
	}
	metrics.LifecycleTransitions.WithLabelValues("attendance", outcome).Inc()
	return record.ToResponse(), nil
}

// parseClockTime anchors an HH:MM value to the attendance date. An
// empty value means the time was not reported.
func parseClockTime(date time.Time, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return nil, attendance.ErrInvalidClockTime
	}
	anchored := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return &anchored, nil
}

func (s *Service) Approve(ctx context.Context, actor employee.Actor, id string) (*attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if !record.PendingApproval {
		return nil, attendance.ErrNotPendingApproval
	}
	if !employee.CanApprove(actor.Role, record.RequestorRole) {
		return nil, attendance.ErrApprovalForbidden
	}

	won, err := s.attendanceRepo.ClearPending(ctx, id, actor.CompanyID, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to approve attendance correction: %w", err)
	}
	if !won {
		metrics.LifecycleTransitions.WithLabelValues("attendance", "conflict").Inc()
		return nil, attendance.ErrNotPendingApproval
	}

	metrics.LifecycleTransitions.WithLabelValues("attendance", "approved").Inc()
	updated, err := s.attendanceRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return updated.ToResponse(), nil
}

// Reject throws the pending correction away. Unlike leave requests
// there is nothing worth keeping: the record only existed to carry
// the proposed change.
func (s *Service) Reject(ctx context.Context, actor employee.Actor, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return attendance.ErrRejectionReasonRequired
	}

	record, err := s.attendanceRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return err
	}
	if !record.PendingApproval {
		return attendance.ErrNotPendingApproval
	}
	if !employee.CanApprove(actor.Role, record.RequestorRole) {
		return attendance.ErrApprovalForbidden
	}

	if err := s.attendanceRepo.Delete(ctx, id, actor.CompanyID); err != nil {
		return fmt.Errorf("failed to discard attendance correction: %w", err)
	}

	slog.Info("attendance correction rejected",
		"attendance_id", id, "rejected_by", actor.EmployeeID, "reason", reason)
	metrics.LifecycleTransitions.WithLabelValues("attendance", "rejected").Inc()
	return nil
}

func (s *Service) BulkMark(ctx context.Context, actor employee.Actor, req *attendance.BulkMarkRequest) (*attendance.BulkMarkResult, error) {
	if actor.Role == employee.RoleEmployee {
		return nil, employee.ErrUnauthorized
	}
	if len(req.EmployeeIDs) == 0 {
		return nil, attendance.ErrNoEmployees
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	if date.After(time.Now().Truncate(24 * time.Hour)) {
		return nil, attendance.ErrFutureDate
	}

	status := attendance.Status(req.Status)
	if !status.IsValid() {
		return nil, attendance.ErrInvalidStatus
	}

	found, err := s.employeeRepo.GetManyByIDs(ctx, actor.CompanyID, req.EmployeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	byID := make(map[string]employee.Employee, len(found))
	for _, emp := range found {
		byID[emp.ID] = emp
	}

	// Reporting managers may only touch their direct reports. One
	// out-of-scope employee fails the whole batch rather than silently
	// marking a subset.
	if actor.Role == employee.RoleReportingManager {
		for _, emp := range found {
			if emp.ReportingManagerID == nil || *emp.ReportingManagerID != actor.EmployeeID {
				return nil, attendance.ErrBulkMarkForbidden
			}
		}
	}

	result := &attendance.BulkMarkResult{}
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		now := time.Now()

		for _, id := range req.EmployeeIDs {
			if _, ok := byID[id]; !ok {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			record := &attendance.Attendance{
				EmployeeID:    id,
				CompanyID:     actor.CompanyID,
				Date:          date,
				Status:        status,
				RequestorRole: actor.Role,
				MarkedBy:      &actor.EmployeeID,
				ApprovedBy:    &actor.EmployeeID,
				ApprovedAt:    &now,
			}
			if err := s.attendanceRepo.Upsert(txCtx, record); err != nil {
				return fmt.Errorf("failed to mark attendance for %s: %w", id, err)
			}
			result.Marked++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LifecycleTransitions.WithLabelValues("attendance", "bulk_marked").Inc()
	return result, nil
}

func (s *Service) List(ctx context.Context, actor employee.Actor, filter attendance.Filter) ([]*attendance.AttendanceResponse, error) {
	if actor.Role == employee.RoleEmployee {
		filter.EmployeeID = actor.EmployeeID
	}

	records, err := s.attendanceRepo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]*attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, r.ToResponse())
	}
	return responses, nil
}

func (s *Service) ListPending(ctx context.Context, actor employee.Actor) ([]*attendance.AttendanceResponse, error) {
	if actor.Role == employee.RoleEmployee {
		return nil, employee.ErrUnauthorized
	}

	records, err := s.attendanceRepo.ListPendingForApprover(ctx, actor.CompanyID, actor.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending attendances: %w", err)
	}

	responses := make([]*attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, r.ToResponse())
	}
	return responses, nil
}

// SweepAutoApprovals applies pending corrections authored by a super
// admin. Those apply immediately at creation, so a pending one slipped
// past that rule; the sweep settles it. ClearPending's conditional
// update keeps repeated passes from approving twice.
func (s *Service) SweepAutoApprovals(ctx context.Context, companyID string) (int, error) {
	stale, err := s.attendanceRepo.ListPendingSuperAdmin(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending super admin corrections: %w", err)
	}

	approved := 0
	for _, record := range stale {
		won, err := s.attendanceRepo.ClearPending(ctx, record.ID, companyID, autoApprovalActor)
		if err != nil {
			slog.Warn("attendance auto-approval failed", "attendance_id", record.ID, "error", err)
			continue
		}
		if won {
			metrics.LifecycleTransitions.WithLabelValues("attendance", "auto_approved").Inc()
			approved++
		}
	}
	return approved, nil
}
