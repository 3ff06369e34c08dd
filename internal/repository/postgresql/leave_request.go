package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req *leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, company_id, leave_type_id,
			start_date, end_date, total_days,
			reason, requestor_role, is_backdate,
			status, approved_by, approved_at,
			submitted_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13,
			NOW(), NOW(), NOW()
		) RETURNING submitted_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.CompanyID, req.LeaveTypeID,
		req.StartDate, req.EndDate, req.TotalDays,
		req.Reason, req.RequestorRole, req.IsBackdate,
		req.Status, req.ApprovedBy, req.ApprovedAt,
	).Scan(&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return ClassifyError(err, "leave_type_id")
	}
	return nil
}

const leaveRequestSelect = `
	SELECT lr.id, lr.employee_id, lr.company_id, lr.leave_type_id,
		   lr.start_date, lr.end_date, lr.total_days,
		   lr.reason, lr.requestor_role, lr.is_backdate,
		   lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason,
		   lr.cancelled_by, lr.cancelled_at,
		   lr.submitted_at, lr.created_at, lr.updated_at,
		   lt.name AS leave_type_name,
		   e.full_name AS employee_name
	FROM leave_requests lr
	JOIN leave_types lt ON lr.leave_type_id = lt.id
	JOIN employees e ON lr.employee_id = e.id
`

func scanLeaveRequest(row pgx.Row) (*leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.CompanyID, &lr.LeaveTypeID,
		&lr.StartDate, &lr.EndDate, &lr.TotalDays,
		&lr.Reason, &lr.RequestorRole, &lr.IsBackdate,
		&lr.Status, &lr.ApprovedBy, &lr.ApprovedAt, &lr.RejectionReason,
		&lr.CancelledBy, &lr.CancelledAt,
		&lr.SubmittedAt, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.LeaveTypeName, &lr.EmployeeName,
	)
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveRequestSelect + " WHERE lr.id = $1 AND lr.company_id = $2"

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, leave.ErrLeaveRequestNotFound
		}
		return nil, err
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) ListByCompany(ctx context.Context, companyID string, filter leave.LeaveRequestFilter) ([]*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := " WHERE lr.company_id = $1"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND lr.status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.EmployeeID != "" {
		whereClause += fmt.Sprintf(" AND lr.employee_id = $%d", argIndex)
		args = append(args, filter.EmployeeID)
		argIndex++
	}

	query := leaveRequestSelect + whereClause + " ORDER BY lr.submitted_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	return r.queryMany(ctx, q, query, args...)
}

func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID, companyID string, filter leave.LeaveRequestFilter) ([]*leave.LeaveRequest, error) {
	filter.EmployeeID = employeeID
	return r.ListByCompany(ctx, companyID, filter)
}

func (r *leaveRequestRepositoryImpl) ListPendingSuperAdmin(ctx context.Context, companyID string) ([]*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveRequestSelect + `
		WHERE lr.company_id = $1 AND lr.status = 'pending'
		  AND lr.requestor_role = 'super_admin'
		ORDER BY lr.submitted_at ASC
	`

	return r.queryMany(ctx, q, query, companyID)
}

func (r *leaveRequestRepositoryImpl) queryMany(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]*leave.LeaveRequest, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

func (r *leaveRequestRepositoryImpl) MarkApproved(ctx context.Context, id, companyID, approverID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = 'approved', approved_by = $3, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, companyID, approverID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *leaveRequestRepositoryImpl) MarkRejected(ctx context.Context, id, companyID, approverID, reason string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = 'rejected', approved_by = $3, approved_at = NOW(), rejection_reason = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, companyID, approverID, reason)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *leaveRequestRepositoryImpl) MarkCancelled(ctx context.Context, id, companyID, cancellerID string, fromStatus leave.LeaveRequestStatus) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = 'cancelled', cancelled_by = $3, cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = $4
	`

	tag, err := q.Exec(ctx, query, id, companyID, cancellerID, fromStatus)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
