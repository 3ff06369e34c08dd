package postgresql

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
)

func strPtr(s string) *string { return &s }

func TestEmployeeRepository_UpdateByEmail_PartialFields(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("UPDATE employees").
		WithArgs("co-1", "jane@acme.test", "Jane Doe", "Engineering").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	n, err := repo.UpdateByEmail(context.Background(), "co-1", "jane@acme.test", employee.UpdateFields{
		FullName:   strPtr("Jane Doe"),
		Department: strPtr("Engineering"),
	})
	if err != nil {
		t.Fatalf("UpdateByEmail returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows affected = %d, want 1", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_UpdateByEmail_NoFieldsNoQuery(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	n, err := repo.UpdateByEmail(context.Background(), "co-1", "jane@acme.test", employee.UpdateFields{})
	if err != nil {
		t.Fatalf("UpdateByEmail returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows affected = %d, want 0", n)
	}

	// No expectations were registered, so any query would have failed.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_UpdateByEmail_UnknownEmail(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("UPDATE employees").
		WithArgs("co-1", "ghost@acme.test", "Ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := repo.UpdateByEmail(context.Background(), "co-1", "ghost@acme.test", employee.UpdateFields{
		FullName: strPtr("Ghost"),
	})
	if err != nil {
		t.Fatalf("UpdateByEmail returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows affected = %d, want 0", n)
	}
}

func TestEmployeeRepository_UpdateByEmail_ForeignKeyViolation(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("UPDATE employees").
		WithArgs("co-1", "jane@acme.test", "rm-missing").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "employees_reporting_manager_id_fkey"})

	_, err := repo.UpdateByEmail(context.Background(), "co-1", "jane@acme.test", employee.UpdateFields{
		ReportingManagerID: strPtr("rm-missing"),
	})

	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected *DataError, got %v", err)
	}
	if dataErr.Kind != KindForeignKey {
		t.Fatalf("kind = %v, want KindForeignKey", dataErr.Kind)
	}
}

func TestEmployeeRepository_Deactivate_AlreadyInactive(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("UPDATE employees").
		WithArgs("emp-1", "co-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Deactivate(context.Background(), "emp-1", "co-1")
	if !errors.Is(err, employee.ErrEmployeeAlreadyInactive) {
		t.Fatalf("expected ErrEmployeeAlreadyInactive, got %v", err)
	}
}
