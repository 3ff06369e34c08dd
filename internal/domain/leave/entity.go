package leave

import (
	"time"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are permitted.
// Pending is the only non-terminal state.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s != LeaveRequestStatusPending
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time
	TotalDays int

	Reason        string
	RequestorRole employee.Role
	IsBackdate    bool

	Status          LeaveRequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CancelledBy *string
	CancelledAt *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	EmployeeName  *string
}

// LeaveBalance is the per-employee, per-leave-type allocation ledger row.
// The invariant 0 <= UsedDays <= AllocatedDays must hold after every
// mutation; the repository enforces it in the update statements themselves.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	AllocatedDays int
	UsedDays      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingDays returns the allocation still available.
func (b LeaveBalance) RemainingDays() int {
	return b.AllocatedDays - b.UsedDays
}

// TotalDaysInclusive is the calendar-day span of [start, end], both ends
// counted. A range with end before start yields 0.
func TotalDaysInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
