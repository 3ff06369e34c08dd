package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req *LeaveRequest) error
	GetByID(ctx context.Context, id, companyID string) (*LeaveRequest, error)
	ListByCompany(ctx context.Context, companyID string, filter LeaveRequestFilter) ([]*LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID, companyID string, filter LeaveRequestFilter) ([]*LeaveRequest, error)
	// ListPendingSuperAdmin returns pending requests authored by a
	// super admin. Such rows violate the auto-approval rule and exist
	// only until the sweep reconciles them.
	ListPendingSuperAdmin(ctx context.Context, companyID string) ([]*LeaveRequest, error)

	// The Mark methods transition a request out of pending with a
	// conditional UPDATE. They return false when another writer got
	// there first and the row is no longer pending.
	MarkApproved(ctx context.Context, id, companyID, approverID string) (bool, error)
	MarkRejected(ctx context.Context, id, companyID, approverID, reason string) (bool, error)
	MarkCancelled(ctx context.Context, id, companyID, cancellerID string, fromStatus LeaveRequestStatus) (bool, error)
}

type LeaveBalanceRepository interface {
	Get(ctx context.Context, employeeID, leaveTypeID string) (*LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*LeaveBalance, error)
	Upsert(ctx context.Context, balance *LeaveBalance) error

	// AddUsage atomically increments used days. With enforceCeiling the
	// update only applies while used+days stays within the allocation;
	// it returns false when the guard rejects the increment.
	AddUsage(ctx context.Context, employeeID, leaveTypeID string, days int, enforceCeiling bool) (bool, error)
	// SubtractUsage decrements used days, flooring at zero.
	SubtractUsage(ctx context.Context, employeeID, leaveTypeID string, days int) error
}
