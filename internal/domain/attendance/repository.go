package attendance

import (
	"context"
	"time"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

type AttendanceRepository interface {
	// Upsert inserts the record or, when one already exists for the
	// employee and date, overwrites its status and approval fields.
	Upsert(ctx context.Context, att *Attendance) error
	GetByID(ctx context.Context, id, companyID string) (*Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	List(ctx context.Context, companyID string, filter Filter) ([]*Attendance, error)
	ListPendingForApprover(ctx context.Context, companyID string, approverRole employee.Role) ([]*Attendance, error)
	// ListPendingSuperAdmin returns pending corrections authored by a
	// super admin, which the sweep reconciles to applied.
	ListPendingSuperAdmin(ctx context.Context, companyID string) ([]*Attendance, error)

	// ClearPending flips pending_approval off with a conditional
	// UPDATE; it returns false when the record was already settled.
	ClearPending(ctx context.Context, id, companyID, approverID string) (bool, error)
	Delete(ctx context.Context, id, companyID string) error
}
