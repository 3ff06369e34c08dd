package postgresql

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
)

func TestLeaveRequestRepository_MarkApproved_FirstWriterWins(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewLeaveRequestRepository(db)

	mock.ExpectExec("UPDATE leave_requests").
		WithArgs("req-1", "co-1", "mgr-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkApproved(context.Background(), "req-1", "co-1", "mgr-1")
	if err != nil {
		t.Fatalf("MarkApproved returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected the transition to win")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLeaveRequestRepository_MarkApproved_AlreadySettled(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewLeaveRequestRepository(db)

	// A concurrent writer settled the request first; the conditional
	// UPDATE finds no pending row.
	mock.ExpectExec("UPDATE leave_requests").
		WithArgs("req-1", "co-1", "mgr-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.MarkApproved(context.Background(), "req-1", "co-1", "mgr-2")
	if err != nil {
		t.Fatalf("MarkApproved returned error: %v", err)
	}
	if ok {
		t.Fatal("expected the transition to lose")
	}
}

func TestLeaveRequestRepository_MarkRejected(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewLeaveRequestRepository(db)

	mock.ExpectExec("UPDATE leave_requests").
		WithArgs("req-1", "co-1", "mgr-1", "dates clash with the release").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkRejected(context.Background(), "req-1", "co-1", "mgr-1", "dates clash with the release")
	if err != nil {
		t.Fatalf("MarkRejected returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected the transition to win")
	}
}

func TestLeaveRequestRepository_MarkCancelled_FromStatus(t *testing.T) {
	t.Parallel()

	mock, db := newMockDB(t)
	repo := NewLeaveRequestRepository(db)

	mock.ExpectExec("UPDATE leave_requests").
		WithArgs("req-1", "co-1", "emp-1", leave.LeaveRequestStatusApproved).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkCancelled(context.Background(), "req-1", "co-1", "emp-1", leave.LeaveRequestStatusApproved)
	if err != nil {
		t.Fatalf("MarkCancelled returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected the transition to win")
	}
}
