package leave

import "time"

type CreateLeaveRequestRequest struct {
	LeaveTypeID string `json:"leave_type_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Reason      string `json:"reason"`
}

type RejectLeaveRequestRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ApproveOptions struct {
	// AllowOverdraft lets an admin push used days past the allocation
	// instead of failing with InsufficientBalanceError.
	AllowOverdraft bool
}

type LeaveRequestFilter struct {
	Status     LeaveRequestStatus
	EmployeeID string
	Limit      int
	Offset     int
}

type LeaveRequestResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    *string    `json:"employee_name,omitempty"`
	LeaveTypeID     string     `json:"leave_type_id"`
	LeaveTypeName   *string    `json:"leave_type_name,omitempty"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	TotalDays       int        `json:"total_days"`
	Reason          string     `json:"reason,omitempty"`
	Status          string     `json:"status"`
	IsBackdate      bool       `json:"is_backdate"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
}

type LeaveBalanceResponse struct {
	LeaveTypeID   string `json:"leave_type_id"`
	AllocatedDays int    `json:"allocated_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

func (lr *LeaveRequest) ToResponse() *LeaveRequestResponse {
	return &LeaveRequestResponse{
		ID:              lr.ID,
		EmployeeID:      lr.EmployeeID,
		EmployeeName:    lr.EmployeeName,
		LeaveTypeID:     lr.LeaveTypeID,
		LeaveTypeName:   lr.LeaveTypeName,
		StartDate:       lr.StartDate.Format("2006-01-02"),
		EndDate:         lr.EndDate.Format("2006-01-02"),
		TotalDays:       lr.TotalDays,
		Reason:          lr.Reason,
		Status:          string(lr.Status),
		IsBackdate:      lr.IsBackdate,
		ApprovedBy:      lr.ApprovedBy,
		ApprovedAt:      lr.ApprovedAt,
		RejectionReason: lr.RejectionReason,
		SubmittedAt:     lr.SubmittedAt,
	}
}

func (b *LeaveBalance) ToResponse() *LeaveBalanceResponse {
	return &LeaveBalanceResponse{
		LeaveTypeID:   b.LeaveTypeID,
		AllocatedDays: b.AllocatedDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays(),
	}
}
