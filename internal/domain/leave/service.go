package leave

import (
	"context"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

type LeaveRequestService interface {
	Create(ctx context.Context, actor employee.Actor, req *CreateLeaveRequestRequest) (*LeaveRequestResponse, error)
	GetByID(ctx context.Context, actor employee.Actor, id string) (*LeaveRequestResponse, error)
	List(ctx context.Context, actor employee.Actor, filter LeaveRequestFilter) ([]*LeaveRequestResponse, error)
	Approve(ctx context.Context, actor employee.Actor, id string, opts ApproveOptions) (*LeaveRequestResponse, error)
	Reject(ctx context.Context, actor employee.Actor, id, reason string) (*LeaveRequestResponse, error)
	Cancel(ctx context.Context, actor employee.Actor, id string) (*LeaveRequestResponse, error)
	// SweepAutoApprovals reconciles pending requests authored by a
	// super admin to approved. Such rows should never sit pending;
	// the sweep restores that rule and is safe to run repeatedly.
	SweepAutoApprovals(ctx context.Context, companyID string) (int, error)
}

type BalanceLedger interface {
	GetBalance(ctx context.Context, employeeID, leaveTypeID string) (*LeaveBalance, error)
	ListBalances(ctx context.Context, employeeID string) ([]*LeaveBalance, error)
	Allocate(ctx context.Context, employeeID, leaveTypeID string, allocatedDays int) error
	// ApplyApproval consumes days from the balance, failing with an
	// InsufficientBalanceError when the allocation cannot cover them.
	ApplyApproval(ctx context.Context, employeeID, leaveTypeID string, days int) error
	// ApplyOverdraft consumes days without the allocation guard.
	ApplyOverdraft(ctx context.Context, employeeID, leaveTypeID string, days int) error
	// ReverseApproval returns previously consumed days to the balance.
	ReverseApproval(ctx context.Context, employeeID, leaveTypeID string, days int) error
}
