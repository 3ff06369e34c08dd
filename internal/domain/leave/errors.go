package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveRequestNotFound     = errors.New("leave request not found")
	ErrBalanceNotFound          = errors.New("no leave balance allocated for this leave type")
	ErrAlreadyFinal             = errors.New("leave request is already in a terminal state")
	ErrApprovalForbidden        = errors.New("role is not allowed to approve this request")
	ErrRejectionReasonRequired  = errors.New("a rejection reason is required")
	ErrInvalidDateRange         = errors.New("end date must not be before start date")
	ErrInsufficientBalance      = errors.New("insufficient leave balance")
	ErrNegativeDays             = errors.New("day count must be positive")
	ErrInvalidAllocation        = errors.New("allocated days must not be negative")
	ErrAllocationBelowUsage     = errors.New("allocated days cannot drop below days already used")
	ErrCancellationNotPermitted = errors.New("only the requestor or an eligible approver may cancel")
)

// InsufficientBalanceError reports by how much an approval would overrun
// the allocation. errors.Is(err, ErrInsufficientBalance) holds for it.
type InsufficientBalanceError struct {
	RequestedDays int
	RemainingDays int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance: requested %d day(s), %d remaining (short by %d)",
		e.RequestedDays, e.RemainingDays, e.ShortfallDays())
}

func (e *InsufficientBalanceError) ShortfallDays() int {
	return e.RequestedDays - e.RemainingDays
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
