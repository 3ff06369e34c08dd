package attendance

import (
	"time"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusHoliday Status = "holiday"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusHoliday:
		return true
	}
	return false
}

// ImpliesPresence reports whether the employee was at work for at
// least part of the day.
func (s Status) ImpliesPresence() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time
	Status     Status

	// Clock times are only carried for statuses implying presence.
	CheckInTime  *time.Time
	CheckOutTime *time.Time

	// PendingApproval marks a backdated correction that still needs a
	// manager or admin to sign off before it counts.
	PendingApproval bool
	RequestorRole   employee.Role
	ChangeReason    string

	MarkedBy   *string
	ApprovedBy *string
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	EmployeeName *string
}
