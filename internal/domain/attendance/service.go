package attendance

import (
	"context"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

type AttendanceService interface {
	// CreateBackdate records a past-date correction. For most roles it
	// lands pending approval; super admin corrections apply at once.
	CreateBackdate(ctx context.Context, actor employee.Actor, req *BackdateRequest) (*AttendanceResponse, error)
	Approve(ctx context.Context, actor employee.Actor, id string) (*AttendanceResponse, error)
	// Reject discards a pending correction entirely.
	Reject(ctx context.Context, actor employee.Actor, id, reason string) error
	// BulkMark stamps one status across many employees for a date.
	// Reporting managers may only mark their own direct reports.
	BulkMark(ctx context.Context, actor employee.Actor, req *BulkMarkRequest) (*BulkMarkResult, error)
	List(ctx context.Context, actor employee.Actor, filter Filter) ([]*AttendanceResponse, error)
	ListPending(ctx context.Context, actor employee.Actor) ([]*AttendanceResponse, error)
	// SweepAutoApprovals applies pending corrections authored by a
	// super admin, which never needed human sign-off.
	SweepAutoApprovals(ctx context.Context, companyID string) (int, error)
}
