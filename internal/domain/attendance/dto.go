package attendance

import "time"

type BackdateRequest struct {
	Date         string `json:"date" validate:"required"`
	Status       string `json:"status" validate:"required"`
	ChangeReason string `json:"change_reason" validate:"required"`
	// Optional HH:MM clock times, accepted only with a presence status.
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
}

type BulkMarkRequest struct {
	Date        string `json:"date" validate:"required"`
	Status      string `json:"status" validate:"required"`
	EmployeeIDs []string `json:"employee_ids" validate:"required,min=1"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type BulkMarkResult struct {
	Marked  int      `json:"marked"`
	Skipped []string `json:"skipped,omitempty"`
}

type Filter struct {
	EmployeeID      string
	From            *time.Time
	To              *time.Time
	PendingApproval *bool
	Limit           int
	Offset          int
}

type AttendanceResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    *string    `json:"employee_name,omitempty"`
	Date            string     `json:"date"`
	Status          string     `json:"status"`
	CheckInTime     *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime    *time.Time `json:"check_out_time,omitempty"`
	PendingApproval bool       `json:"pending_approval"`
	ChangeReason    string     `json:"change_reason,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
}

func (a *Attendance) ToResponse() *AttendanceResponse {
	return &AttendanceResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		EmployeeName:    a.EmployeeName,
		Date:            a.Date.Format("2006-01-02"),
		Status:          string(a.Status),
		CheckInTime:     a.CheckInTime,
		CheckOutTime:    a.CheckOutTime,
		PendingApproval: a.PendingApproval,
		ChangeReason:    a.ChangeReason,
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      a.ApprovedAt,
	}
}
