package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/attendance"
	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.company_id, a.date, a.status,
		   a.check_in_time, a.check_out_time,
		   a.pending_approval, a.requestor_role, a.change_reason,
		   a.marked_by, a.approved_by, a.approved_at,
		   a.created_at, a.updated_at,
		   e.full_name AS employee_name
	FROM attendances a
	JOIN employees e ON a.employee_id = e.id
`

func scanAttendance(row pgx.Row) (*attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.Status,
		&a.CheckInTime, &a.CheckOutTime,
		&a.PendingApproval, &a.RequestorRole, &a.ChangeReason,
		&a.MarkedBy, &a.ApprovedBy, &a.ApprovedAt,
		&a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, att *attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	if att.ID == "" {
		att.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date, status,
			check_in_time, check_out_time,
			pending_approval, requestor_role, change_reason,
			marked_by, approved_by, approved_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10,
			$11, $12, $13,
			NOW(), NOW()
		)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET
			status = EXCLUDED.status,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			pending_approval = EXCLUDED.pending_approval,
			requestor_role = EXCLUDED.requestor_role,
			change_reason = EXCLUDED.change_reason,
			marked_by = EXCLUDED.marked_by,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID, att.EmployeeID, att.CompanyID, att.Date, att.Status,
		att.CheckInTime, att.CheckOutTime,
		att.PendingApproval, att.RequestorRole, att.ChangeReason,
		att.MarkedBy, att.ApprovedBy, att.ApprovedAt,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		return ClassifyError(err, "employee_id")
	}
	return nil
}

func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + " WHERE a.id = $1 AND a.company_id = $2"

	att, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, err
	}
	return att, nil
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + " WHERE a.employee_id = $1 AND a.date = $2"

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, err
	}
	return att, nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, companyID string, filter attendance.Filter) ([]*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := " WHERE a.company_id = $1"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.EmployeeID != "" {
		whereClause += fmt.Sprintf(" AND a.employee_id = $%d", argIndex)
		args = append(args, filter.EmployeeID)
		argIndex++
	}
	if filter.From != nil {
		whereClause += fmt.Sprintf(" AND a.date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		whereClause += fmt.Sprintf(" AND a.date <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}
	if filter.PendingApproval != nil {
		whereClause += fmt.Sprintf(" AND a.pending_approval = $%d", argIndex)
		args = append(args, *filter.PendingApproval)
		argIndex++
	}

	query := attendanceSelect + whereClause + " ORDER BY a.date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	return r.queryMany(ctx, q, query, args...)
}

// ListPendingForApprover narrows pending corrections to the ones the
// approver's role may settle. Admins see every pending correction;
// reporting managers only see those raised by plain employees.
func (r *attendanceRepositoryImpl) ListPendingForApprover(ctx context.Context, companyID string, approverRole employee.Role) ([]*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + " WHERE a.company_id = $1 AND a.pending_approval = true"
	args := []interface{}{companyID}

	if approverRole == employee.RoleReportingManager {
		query += " AND a.requestor_role = $2"
		args = append(args, employee.RoleEmployee)
	}
	query += " ORDER BY a.date ASC"

	return r.queryMany(ctx, q, query, args...)
}

func (r *attendanceRepositoryImpl) ListPendingSuperAdmin(ctx context.Context, companyID string) ([]*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `
		WHERE a.company_id = $1 AND a.pending_approval = true
		  AND a.requestor_role = 'super_admin'
		ORDER BY a.created_at ASC
	`

	return r.queryMany(ctx, q, query, companyID)
}

func (r *attendanceRepositoryImpl) queryMany(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]*attendance.Attendance, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

func (r *attendanceRepositoryImpl) ClearPending(ctx context.Context, id, companyID, approverID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET pending_approval = false, approved_by = $3, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND pending_approval = true
	`

	tag, err := q.Exec(ctx, query, id, companyID, approverID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM attendances WHERE id = $1 AND company_id = $2`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
