package postgresql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, allocated_days, used_days, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2
	`

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, employeeID, leaveTypeID).Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.AllocatedDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, leave.ErrBalanceNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, allocated_days, used_days, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*leave.LeaveBalance
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.AllocatedDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		balances = append(balances, &b)
	}
	return balances, rows.Err()
}

func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, balance *leave.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	if balance.ID == "" {
		balance.ID = uuid.NewString()
	}

	// The conflict guard refuses a reallocation that would strand the
	// row with more days used than allocated.
	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, allocated_days, used_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (employee_id, leave_type_id)
		DO UPDATE SET allocated_days = EXCLUDED.allocated_days, updated_at = NOW()
		WHERE leave_balances.used_days <= EXCLUDED.allocated_days
		RETURNING id, used_days
	`

	err := q.QueryRow(ctx, query,
		balance.ID, balance.EmployeeID, balance.LeaveTypeID, balance.AllocatedDays, balance.UsedDays,
	).Scan(&balance.ID, &balance.UsedDays)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrAllocationBelowUsage
		}
		return ClassifyError(err, "leave_type_id")
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) AddUsage(ctx context.Context, employeeID, leaveTypeID string, days int, enforceCeiling bool) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// The guard runs inside the UPDATE so two concurrent approvals
	// cannot both squeeze past the allocation.
	query := `
		UPDATE leave_balances
		SET used_days = used_days + $3, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2
		  AND ($4 = false OR used_days + $3 <= allocated_days)
	`

	tag, err := q.Exec(ctx, query, employeeID, leaveTypeID, days, enforceCeiling)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *leaveBalanceRepositoryImpl) SubtractUsage(ctx context.Context, employeeID, leaveTypeID string, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = GREATEST(used_days - $3, 0), updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2
	`

	tag, err := q.Exec(ctx, query, employeeID, leaveTypeID, days)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}
