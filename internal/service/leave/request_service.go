package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
	"github.com/staffsync/hrops-backend-go/internal/pkg/metrics"
	"github.com/staffsync/hrops-backend-go/internal/repository/postgresql"
)

// autoApprovalActor is recorded as the approver on sweep approvals.
const autoApprovalActor = "system"

type RequestService struct {
	db          *database.DB
	requestRepo leave.LeaveRequestRepository
	ledger      leave.BalanceLedger
}

func NewRequestService(db *database.DB, requestRepo leave.LeaveRequestRepository, ledger leave.BalanceLedger) *RequestService {
	return &RequestService{
		db:          db,
		requestRepo: requestRepo,
		ledger:      ledger,
	}
}

func (s *RequestService) Create(ctx context.Context, actor employee.Actor, req *leave.CreateLeaveRequestRequest) (*leave.LeaveRequestResponse, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end date: %w", err)
	}
	if endDate.Before(startDate) {
		return nil, leave.ErrInvalidDateRange
	}

	request := &leave.LeaveRequest{
		EmployeeID:    actor.EmployeeID,
		CompanyID:     actor.CompanyID,
		LeaveTypeID:   req.LeaveTypeID,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     leave.TotalDaysInclusive(startDate, endDate),
		Reason:        req.Reason,
		RequestorRole: actor.Role,
		Status:        leave.LeaveRequestStatusPending,
	}

	today := time.Now().Truncate(24 * time.Hour)
	if startDate.Before(today) {
		request.IsBackdate = true
	}

	if !employee.IsAutoApproved(actor.Role) {
		if err := s.requestRepo.Create(ctx, request); err != nil {
			return nil, fmt.Errorf("failed to create leave request: %w", err)
		}
		metrics.LifecycleTransitions.WithLabelValues("leave", "submitted").Inc()
		return request.ToResponse(), nil
	}

	// Super admin requests skip the approval queue entirely. The row
	// and the balance consumption land in one transaction so a ledger
	// failure leaves nothing behind.
	now := time.Now()
	request.Status = leave.LeaveRequestStatusApproved
	request.ApprovedBy = &request.EmployeeID
	request.ApprovedAt = &now

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.requestRepo.Create(txCtx, request); err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return s.ledger.ApplyApproval(txCtx, request.EmployeeID, request.LeaveTypeID, request.TotalDays)
	})
	if err != nil {
		return nil, err
	}

	metrics.LifecycleTransitions.WithLabelValues("leave", "auto_approved").Inc()
	return request.ToResponse(), nil
}

func (s *RequestService) GetByID(ctx context.Context, actor employee.Actor, id string) (*leave.LeaveRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if actor.Role == employee.RoleEmployee && request.EmployeeID != actor.EmployeeID {
		return nil, employee.ErrUnauthorized
	}
	return request.ToResponse(), nil
}

func (s *RequestService) List(ctx context.Context, actor employee.Actor, filter leave.LeaveRequestFilter) ([]*leave.LeaveRequestResponse, error) {
	var (
		requests []*leave.LeaveRequest
		err      error
	)
	if actor.Role == employee.RoleEmployee {
		requests, err = s.requestRepo.ListByEmployee(ctx, actor.EmployeeID, actor.CompanyID, filter)
	} else {
		requests, err = s.requestRepo.ListByCompany(ctx, actor.CompanyID, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]*leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}
	return responses, nil
}

func (s *RequestService) Approve(ctx context.Context, actor employee.Actor, id string, opts leave.ApproveOptions) (*leave.LeaveRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, leave.ErrAlreadyFinal
	}
	if !employee.CanApprove(actor.Role, request.RequestorRole) {
		return nil, leave.ErrApprovalForbidden
	}
	if opts.AllowOverdraft && !actor.Role.Outranks(employee.RoleReportingManager) {
		return nil, leave.ErrApprovalForbidden
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		won, err := s.requestRepo.MarkApproved(txCtx, id, actor.CompanyID, actor.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to mark leave request approved: %w", err)
		}
		if !won {
			return leave.ErrAlreadyFinal
		}

		if opts.AllowOverdraft {
			return s.ledger.ApplyOverdraft(txCtx, request.EmployeeID, request.LeaveTypeID, request.TotalDays)
		}
		return s.ledger.ApplyApproval(txCtx, request.EmployeeID, request.LeaveTypeID, request.TotalDays)
	})
	if err != nil {
		if errors.Is(err, leave.ErrAlreadyFinal) {
			metrics.LifecycleTransitions.WithLabelValues("leave", "conflict").Inc()
		}
		return nil, err
	}

	metrics.LifecycleTransitions.WithLabelValues("leave", "approved").Inc()
	return s.reload(ctx, actor.CompanyID, id)
}

func (s *RequestService) Reject(ctx context.Context, actor employee.Actor, id, reason string) (*leave.LeaveRequestResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, leave.ErrRejectionReasonRequired
	}

	request, err := s.requestRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, leave.ErrAlreadyFinal
	}
	if !employee.CanApprove(actor.Role, request.RequestorRole) {
		return nil, leave.ErrApprovalForbidden
	}

	won, err := s.requestRepo.MarkRejected(ctx, id, actor.CompanyID, actor.EmployeeID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to mark leave request rejected: %w", err)
	}
	if !won {
		metrics.LifecycleTransitions.WithLabelValues("leave", "conflict").Inc()
		return nil, leave.ErrAlreadyFinal
	}

	metrics.LifecycleTransitions.WithLabelValues("leave", "rejected").Inc()
	return s.reload(ctx, actor.CompanyID, id)
}

// Cancel withdraws a request. A cancelled approved request hands its
// consumed days back to the balance in the same transaction.
func (s *RequestService) Cancel(ctx context.Context, actor employee.Actor, id string) (*leave.LeaveRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	isRequestor := request.EmployeeID == actor.EmployeeID
	if !isRequestor && !employee.CanApprove(actor.Role, request.RequestorRole) {
		return nil, leave.ErrCancellationNotPermitted
	}

	switch request.Status {
	case leave.LeaveRequestStatusPending:
		won, err := s.requestRepo.MarkCancelled(ctx, id, actor.CompanyID, actor.EmployeeID, leave.LeaveRequestStatusPending)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel leave request: %w", err)
		}
		if !won {
			return nil, leave.ErrAlreadyFinal
		}
	case leave.LeaveRequestStatusApproved:
		err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)

			won, err := s.requestRepo.MarkCancelled(txCtx, id, actor.CompanyID, actor.EmployeeID, leave.LeaveRequestStatusApproved)
			if err != nil {
				return fmt.Errorf("failed to cancel leave request: %w", err)
			}
			if !won {
				return leave.ErrAlreadyFinal
			}
			return s.ledger.ReverseApproval(txCtx, request.EmployeeID, request.LeaveTypeID, request.TotalDays)
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, leave.ErrAlreadyFinal
	}

	metrics.LifecycleTransitions.WithLabelValues("leave", "cancelled").Inc()
	return s.reload(ctx, actor.CompanyID, id)
}

func (s *RequestService) reload(ctx context.Context, companyID, id string) (*leave.LeaveRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	return request.ToResponse(), nil
}

// SweepAutoApprovals reconciles pending requests authored by a super
// admin to approved. Such requests skip the queue at creation, so a
// pending one means that path was bypassed somewhere; the sweep
// restores the rule. The CAS on pending keeps a second pass from
// applying the ledger twice.
func (s *RequestService) SweepAutoApprovals(ctx context.Context, companyID string) (int, error) {
	stale, err := s.requestRepo.ListPendingSuperAdmin(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending super admin requests: %w", err)
	}

	approved := 0
	for _, request := range stale {
		request := request
		err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
			txCtx := context.WithValue(ctx, "tx", tx)

			won, err := s.requestRepo.MarkApproved(txCtx, request.ID, companyID, autoApprovalActor)
			if err != nil {
				return fmt.Errorf("failed to mark leave request approved: %w", err)
			}
			if !won {
				return leave.ErrAlreadyFinal
			}
			return s.ledger.ApplyApproval(txCtx, request.EmployeeID, request.LeaveTypeID, request.TotalDays)
		})
		if err != nil {
			// A lost race or an exhausted balance leaves the request
			// as it was; the next sweep retries what is retryable.
			if !errors.Is(err, leave.ErrAlreadyFinal) {
				slog.Warn("auto-approval skipped", "request_id", request.ID, "error", err)
			}
			continue
		}

		metrics.LifecycleTransitions.WithLabelValues("leave", "auto_approved").Inc()
		approved++
	}
	return approved, nil
}
