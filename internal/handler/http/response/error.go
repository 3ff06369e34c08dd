package response

import (
	"errors"
	"net/http"

	"github.com/staffsync/hrops-backend-go/internal/domain/attendance"
	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/domain/imports"
	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
	"github.com/staffsync/hrops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var insufficientErr *leave.InsufficientBalanceError
	if errors.As(err, &insufficientErr) {
		BadRequest(w, insufficientErr.Error(), nil)
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailNotFound):
		NotFound(w, "No employee carries that email")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered in this company")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, "Not allowed for this role")
	case errors.Is(err, employee.ErrInvalidRole):
		BadRequest(w, "Unknown role", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "No balance allocated for this leave type")
	case errors.Is(err, leave.ErrAlreadyFinal):
		Conflict(w, "Leave request already settled")
	case errors.Is(err, leave.ErrApprovalForbidden):
		Forbidden(w, "Role is not allowed to settle this request")
	case errors.Is(err, leave.ErrCancellationNotPermitted):
		Forbidden(w, "Only the requestor or an eligible approver may cancel")
	case errors.Is(err, leave.ErrRejectionReasonRequired):
		BadRequest(w, "A rejection reason is required", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrInvalidAllocation):
		BadRequest(w, "Allocated days must not be negative", nil)
	case errors.Is(err, leave.ErrAllocationBelowUsage):
		Conflict(w, "Allocated days cannot drop below days already used")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNotPendingApproval):
		Conflict(w, "Attendance correction already settled")
	case errors.Is(err, attendance.ErrFutureDate):
		BadRequest(w, "Attendance date must not be in the future", nil)
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Unknown attendance status", nil)
	case errors.Is(err, attendance.ErrApprovalForbidden):
		Forbidden(w, "Role is not allowed to settle this correction")
	case errors.Is(err, attendance.ErrRejectionReasonRequired):
		BadRequest(w, "A rejection reason is required", nil)
	case errors.Is(err, attendance.ErrChangeReasonRequired):
		BadRequest(w, "A change reason is required", nil)
	case errors.Is(err, attendance.ErrInvalidClockTime):
		BadRequest(w, "Clock times must use the HH:MM 24-hour format", nil)
	case errors.Is(err, attendance.ErrClockTimesNeedPresence):
		BadRequest(w, "Clock times are only accepted with a presence status", nil)
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, "Check-out time must not be before check-in", nil)
	case errors.Is(err, attendance.ErrBulkMarkForbidden):
		Forbidden(w, "Employee is outside your reporting line")
	case errors.Is(err, attendance.ErrNoEmployees):
		BadRequest(w, "No employees supplied", nil)

	// Import errors
	case errors.Is(err, imports.ErrEmptyFile):
		BadRequest(w, "File contains no data rows", nil)
	case errors.Is(err, imports.ErrMissingHeaders):
		BadRequest(w, "File has no usable header row", nil)
	case errors.Is(err, imports.ErrNoKeyColumn):
		BadRequest(w, "No email column found to match employees by", nil)
	case errors.Is(err, imports.ErrSessionNotFound):
		NotFound(w, "Import session not found")
	case errors.Is(err, imports.ErrFileTooLarge):
		PayloadTooLarge(w, "File exceeds the upload size limit")
	case errors.Is(err, imports.ErrUnsupportedModel):
		BadRequest(w, "Mapping override names an unknown target field", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
