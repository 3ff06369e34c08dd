package attendance

import "errors"

var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrNotPendingApproval      = errors.New("attendance record is not awaiting approval")
	ErrFutureDate              = errors.New("attendance date must not be in the future")
	ErrInvalidStatus           = errors.New("invalid attendance status")
	ErrApprovalForbidden       = errors.New("role is not allowed to approve this correction")
	ErrRejectionReasonRequired = errors.New("a rejection reason is required")
	ErrChangeReasonRequired    = errors.New("a change reason is required for backdated corrections")
	ErrInvalidClockTime        = errors.New("clock time must be in HH:MM 24-hour format")
	ErrClockTimesNeedPresence  = errors.New("check-in and check-out times require a presence status")
	ErrCheckOutBeforeCheckIn   = errors.New("check-out time must not be before check-in")
	ErrBulkMarkForbidden       = errors.New("employee is outside the actor's reporting line")
	ErrNoEmployees             = errors.New("no employees supplied for bulk marking")
)
