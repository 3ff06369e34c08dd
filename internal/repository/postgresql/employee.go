package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.company_id, e.reporting_manager_id, e.role_id, e.team_id,
	e.email, e.full_name, e.department, e.position, e.role,
	e.hire_date, e.is_active, e.created_at, e.updated_at, e.deleted_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.ReportingManagerID, &e.RoleID, &e.TeamID,
		&e.Email, &e.FullName, &e.Department, &e.Position, &e.Role,
		&e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	return e, err
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.NewString()
	}

	query := `
		INSERT INTO employees (
			id, company_id, reporting_manager_id, role_id, team_id,
			email, full_name, department, position, role,
			hire_date, is_active,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.CompanyID, newEmployee.ReportingManagerID, newEmployee.RoleID, newEmployee.TeamID,
		newEmployee.Email, newEmployee.FullName, newEmployee.Department, newEmployee.Position, newEmployee.Role,
		newEmployee.HireDate, newEmployee.IsActive,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		return employee.Employee{}, ClassifyError(err, "email")
	}
	return newEmployee, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, companyID string, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.company_id = $1 AND LOWER(e.email) = LOWER($2) AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, companyID, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmailNotFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE e.company_id = $1 AND e.deleted_at IS NULL"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.Search != "" {
		whereClause += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.email ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}
	if filter.Department != nil {
		whereClause += fmt.Sprintf(" AND e.department = $%d", argIndex)
		args = append(args, *filter.Department)
		argIndex++
	}
	if filter.IsActive != nil {
		whereClause += fmt.Sprintf(" AND e.is_active = $%d", argIndex)
		args = append(args, *filter.IsActive)
		argIndex++
	}

	countQuery := "SELECT COUNT(*) FROM employees e " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + employeeColumns + " FROM employees e " + whereClause + " ORDER BY e.full_name ASC"
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}
	return employees, total, rows.Err()
}

func (r *employeeRepositoryImpl) GetManyByIDs(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.company_id = $1 AND e.id = ANY($2) AND e.deleted_at IS NULL
	`

	rows, err := q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) UpdateByEmail(ctx context.Context, companyID string, email string, fields employee.UpdateFields) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var setClauses []string
	args := []interface{}{companyID, email}
	argIndex := 3

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if fields.FullName != nil {
		addSet("full_name", *fields.FullName)
	}
	if fields.Role != nil {
		addSet("role", *fields.Role)
	}
	if fields.Department != nil {
		addSet("department", *fields.Department)
	}
	if fields.Position != nil {
		addSet("position", *fields.Position)
	}
	if fields.HireDate != nil {
		addSet("hire_date", *fields.HireDate)
	}
	if fields.IsActive != nil {
		addSet("is_active", *fields.IsActive)
	}
	if fields.CompanyID != nil {
		addSet("company_id", *fields.CompanyID)
	}
	if fields.ReportingManagerID != nil {
		addSet("reporting_manager_id", *fields.ReportingManagerID)
	}
	if fields.RoleID != nil {
		addSet("role_id", *fields.RoleID)
	}
	if fields.TeamID != nil {
		addSet("team_id", *fields.TeamID)
	}

	if len(setClauses) == 0 {
		return 0, nil
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE employees
		SET %s
		WHERE company_id = $1 AND LOWER(email) = LOWER($2) AND deleted_at IS NULL
	`, strings.Join(setClauses, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, ClassifyError(err, "")
	}
	return tag.RowsAffected(), nil
}

func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL AND is_active = true
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeAlreadyInactive
	}
	return nil
}
