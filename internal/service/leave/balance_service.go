package leave

import (
	"context"
	"fmt"

	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
)

// BalanceService is the ledger over leave_balances. Every mutation
// keeps used days between zero and the allocation unless the caller
// explicitly overdrafts.
type BalanceService struct {
	balanceRepo leave.LeaveBalanceRepository
}

func NewBalanceService(balanceRepo leave.LeaveBalanceRepository) *BalanceService {
	return &BalanceService{balanceRepo: balanceRepo}
}

func (s *BalanceService) GetBalance(ctx context.Context, employeeID, leaveTypeID string) (*leave.LeaveBalance, error) {
	return s.balanceRepo.Get(ctx, employeeID, leaveTypeID)
}

func (s *BalanceService) ListBalances(ctx context.Context, employeeID string) ([]*leave.LeaveBalance, error) {
	return s.balanceRepo.ListByEmployee(ctx, employeeID)
}

func (s *BalanceService) Allocate(ctx context.Context, employeeID, leaveTypeID string, allocatedDays int) error {
	if allocatedDays < 0 {
		return leave.ErrInvalidAllocation
	}
	balance := &leave.LeaveBalance{
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		AllocatedDays: allocatedDays,
	}
	if err := s.balanceRepo.Upsert(ctx, balance); err != nil {
		return fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return nil
}

func (s *BalanceService) ApplyApproval(ctx context.Context, employeeID, leaveTypeID string, days int) error {
	if days <= 0 {
		return leave.ErrNegativeDays
	}

	ok, err := s.balanceRepo.AddUsage(ctx, employeeID, leaveTypeID, days, true)
	if err != nil {
		return fmt.Errorf("failed to add leave usage: %w", err)
	}
	if ok {
		return nil
	}

	// The guarded update matched nothing. Either the balance row does
	// not exist or the allocation cannot cover the request.
	balance, err := s.balanceRepo.Get(ctx, employeeID, leaveTypeID)
	if err != nil {
		return err
	}
	return &leave.InsufficientBalanceError{
		RequestedDays: days,
		RemainingDays: balance.RemainingDays(),
	}
}

func (s *BalanceService) ApplyOverdraft(ctx context.Context, employeeID, leaveTypeID string, days int) error {
	if days <= 0 {
		return leave.ErrNegativeDays
	}

	ok, err := s.balanceRepo.AddUsage(ctx, employeeID, leaveTypeID, days, false)
	if err != nil {
		return fmt.Errorf("failed to add leave usage: %w", err)
	}
	if !ok {
		return leave.ErrBalanceNotFound
	}
	return nil
}

func (s *BalanceService) ReverseApproval(ctx context.Context, employeeID, leaveTypeID string, days int) error {
	if days <= 0 {
		return leave.ErrNegativeDays
	}
	return s.balanceRepo.SubtractUsage(ctx, employeeID, leaveTypeID, days)
}
