package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync/hrops-backend-go/internal/domain/employee"
	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
)

// fakeTx buffers writes until Commit so a rollback really discards
// them. The fake repos stage their mutations here whenever the context
// carries a transaction, mirroring how the real repositories route
// through the transaction's querier.
type fakeTx struct {
	pgx.Tx
	mu  sync.Mutex
	ops []func()
}

func (t *fakeTx) stage(op func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = append(t.ops, op)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	ops := t.ops
	t.ops = nil
	t.mu.Unlock()
	for _, op := range ops {
		op()
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	t.ops = nil
	t.mu.Unlock()
	return nil
}

func stagedTx(ctx context.Context) *fakeTx {
	tx, _ := ctx.Value("tx").(*fakeTx)
	return tx
}

type fakePool struct{}

func (p *fakePool) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return nil
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

func (p *fakePool) Ping(ctx context.Context) error { return nil }

func (p *fakePool) Close() {}

type fakeLeaveRequestRepo struct {
	mu       sync.Mutex
	nextID   int
	requests map[string]*leave.LeaveRequest
}

func newFakeLeaveRequestRepo() *fakeLeaveRequestRepo {
	return &fakeLeaveRequestRepo{requests: make(map[string]*leave.LeaveRequest)}
}

func (f *fakeLeaveRequestRepo) Create(ctx context.Context, req *leave.LeaveRequest) error {
	f.mu.Lock()
	if req.ID == "" {
		f.nextID++
		req.ID = fmt.Sprintf("req-%d", f.nextID)
	}
	req.SubmittedAt = time.Now()
	stored := *req
	f.mu.Unlock()

	insert := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests[stored.ID] = &stored
	}
	if tx := stagedTx(ctx); tx != nil {
		tx.stage(insert)
		return nil
	}
	insert()
	return nil
}

func (f *fakeLeaveRequestRepo) GetByID(ctx context.Context, id, companyID string) (*leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.requests[id]
	if !ok || stored.CompanyID != companyID {
		return nil, leave.ErrLeaveRequestNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeLeaveRequestRepo) ListByCompany(ctx context.Context, companyID string, filter leave.LeaveRequestFilter) ([]*leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*leave.LeaveRequest
	for _, r := range f.requests {
		if r.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.EmployeeID != "" && r.EmployeeID != filter.EmployeeID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeLeaveRequestRepo) ListByEmployee(ctx context.Context, employeeID, companyID string, filter leave.LeaveRequestFilter) ([]*leave.LeaveRequest, error) {
	filter.EmployeeID = employeeID
	return f.ListByCompany(ctx, companyID, filter)
}

func (f *fakeLeaveRequestRepo) ListPendingSuperAdmin(ctx context.Context, companyID string) ([]*leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*leave.LeaveRequest
	for _, r := range f.requests {
		if r.CompanyID == companyID && r.Status == leave.LeaveRequestStatusPending && r.RequestorRole == employee.RoleSuperAdmin {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// transition checks the from-status against committed state, then
// stages the write on the context's transaction when one is present.
func (f *fakeLeaveRequestRepo) transition(ctx context.Context, id, companyID string, from, to leave.LeaveRequestStatus, mutate func(*leave.LeaveRequest)) (bool, error) {
	f.mu.Lock()
	stored, ok := f.requests[id]
	if !ok || stored.CompanyID != companyID || stored.Status != from {
		f.mu.Unlock()
		return false, nil
	}
	f.mu.Unlock()

	apply := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		stored.Status = to
		mutate(stored)
	}
	if tx := stagedTx(ctx); tx != nil {
		tx.stage(apply)
		return true, nil
	}
	apply()
	return true, nil
}

func (f *fakeLeaveRequestRepo) MarkApproved(ctx context.Context, id, companyID, approverID string) (bool, error) {
	now := time.Now()
	return f.transition(ctx, id, companyID, leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved, func(r *leave.LeaveRequest) {
		r.ApprovedBy = &approverID
		r.ApprovedAt = &now
	})
}

func (f *fakeLeaveRequestRepo) MarkRejected(ctx context.Context, id, companyID, approverID, reason string) (bool, error) {
	now := time.Now()
	return f.transition(ctx, id, companyID, leave.LeaveRequestStatusPending, leave.LeaveRequestStatusRejected, func(r *leave.LeaveRequest) {
		r.ApprovedBy = &approverID
		r.ApprovedAt = &now
		r.RejectionReason = &reason
	})
}

func (f *fakeLeaveRequestRepo) MarkCancelled(ctx context.Context, id, companyID, cancellerID string, fromStatus leave.LeaveRequestStatus) (bool, error) {
	now := time.Now()
	return f.transition(ctx, id, companyID, fromStatus, leave.LeaveRequestStatusCancelled, func(r *leave.LeaveRequest) {
		r.CancelledBy = &cancellerID
		r.CancelledAt = &now
	})
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]*leave.LeaveBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]*leave.LeaveBalance)}
}

func balanceKey(employeeID, leaveTypeID string) string {
	return employeeID + "/" + leaveTypeID
}

func (f *fakeBalanceRepo) seed(employeeID, leaveTypeID string, allocated, used int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[balanceKey(employeeID, leaveTypeID)] = &leave.LeaveBalance{
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		AllocatedDays: allocated,
		UsedDays:      used,
	}
}

func (f *fakeBalanceRepo) Get(ctx context.Context, employeeID, leaveTypeID string) (*leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey(employeeID, leaveTypeID)]
	if !ok {
		return nil, leave.ErrBalanceNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBalanceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*leave.LeaveBalance
	for _, b := range f.balances {
		if b.EmployeeID == employeeID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) Upsert(ctx context.Context, balance *leave.LeaveBalance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := balanceKey(balance.EmployeeID, balance.LeaveTypeID)
	if existing, ok := f.balances[key]; ok {
		if existing.UsedDays > balance.AllocatedDays {
			return leave.ErrAllocationBelowUsage
		}
		existing.AllocatedDays = balance.AllocatedDays
		balance.UsedDays = existing.UsedDays
		return nil
	}
	cp := *balance
	f.balances[key] = &cp
	return nil
}

func (f *fakeBalanceRepo) AddUsage(ctx context.Context, employeeID, leaveTypeID string, days int, enforceCeiling bool) (bool, error) {
	f.mu.Lock()
	b, ok := f.balances[balanceKey(employeeID, leaveTypeID)]
	if !ok || (enforceCeiling && b.UsedDays+days > b.AllocatedDays) {
		f.mu.Unlock()
		return false, nil
	}
	f.mu.Unlock()

	apply := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		b.UsedDays += days
	}
	if tx := stagedTx(ctx); tx != nil {
		tx.stage(apply)
		return true, nil
	}
	apply()
	return true, nil
}

func (f *fakeBalanceRepo) SubtractUsage(ctx context.Context, employeeID, leaveTypeID string, days int) error {
	f.mu.Lock()
	b, ok := f.balances[balanceKey(employeeID, leaveTypeID)]
	f.mu.Unlock()
	if !ok {
		return leave.ErrBalanceNotFound
	}

	apply := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		b.UsedDays -= days
		if b.UsedDays < 0 {
			b.UsedDays = 0
		}
	}
	if tx := stagedTx(ctx); tx != nil {
		tx.stage(apply)
		return nil
	}
	apply()
	return nil
}

type leaveFixture struct {
	svc         *RequestService
	requestRepo *fakeLeaveRequestRepo
	balanceRepo *fakeBalanceRepo
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	requestRepo := newFakeLeaveRequestRepo()
	balanceRepo := newFakeBalanceRepo()
	ledger := NewBalanceService(balanceRepo)
	db := &database.DB{Pool: &fakePool{}}

	return &leaveFixture{
		svc:         NewRequestService(db, requestRepo, ledger),
		requestRepo: requestRepo,
		balanceRepo: balanceRepo,
	}
}

func (fx *leaveFixture) seedPending(t *testing.T, employeeID string, role employee.Role, leaveTypeID string, days int) string {
	t.Helper()
	req := &leave.LeaveRequest{
		EmployeeID:    employeeID,
		CompanyID:     "co-1",
		LeaveTypeID:   leaveTypeID,
		StartDate:     time.Now().AddDate(0, 0, 7),
		EndDate:       time.Now().AddDate(0, 0, 6+days),
		TotalDays:     days,
		RequestorRole: role,
		Status:        leave.LeaveRequestStatusPending,
	}
	require.NoError(t, fx.requestRepo.Create(context.Background(), req))
	return req.ID
}

var (
	adminActor    = employee.Actor{EmployeeID: "adm-1", CompanyID: "co-1", Role: employee.RoleAdmin}
	managerActor  = employee.Actor{EmployeeID: "mgr-1", CompanyID: "co-1", Role: employee.RoleReportingManager}
	employeeActor = employee.Actor{EmployeeID: "emp-1", CompanyID: "co-1", Role: employee.RoleEmployee}
	rootActor     = employee.Actor{EmployeeID: "root-1", CompanyID: "co-1", Role: employee.RoleSuperAdmin}
)

func TestApprove_ConsumesBalance(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("emp-1", "annual", 10, 3)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	resp, err := fx.svc.Approve(context.Background(), managerActor, id, leave.ApproveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, "mgr-1", *resp.ApprovedBy)

	balance, err := fx.balanceRepo.Get(context.Background(), "emp-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 5, balance.UsedDays)
}

func TestApprove_InsufficientBalance_RequestStaysPending(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("emp-1", "annual", 10, 9)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	_, err := fx.svc.Approve(context.Background(), adminActor, id, leave.ApproveOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	var insufficientErr *leave.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 2, insufficientErr.RequestedDays)
	assert.Equal(t, 1, insufficientErr.RemainingDays)
	assert.Equal(t, 1, insufficientErr.ShortfallDays())

	// The rolled-back approval must leave both rows untouched.
	stored, err := fx.requestRepo.GetByID(context.Background(), id, "co-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, stored.Status)
	assert.Nil(t, stored.ApprovedBy)

	balance, err := fx.balanceRepo.Get(context.Background(), "emp-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 9, balance.UsedDays)
}

func TestApprove_Overdraft(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("emp-1", "annual", 10, 9)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	resp, err := fx.svc.Approve(context.Background(), adminActor, id, leave.ApproveOptions{AllowOverdraft: true})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	balance, err := fx.balanceRepo.Get(context.Background(), "emp-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 11, balance.UsedDays)
	assert.Equal(t, -1, balance.RemainingDays())
}

func TestApprove_OverdraftNeedsAdmin(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("emp-1", "annual", 10, 9)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	_, err := fx.svc.Approve(context.Background(), managerActor, id, leave.ApproveOptions{AllowOverdraft: true})
	assert.ErrorIs(t, err, leave.ErrApprovalForbidden)
}

func TestApprove_FirstWriterWins(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("emp-1", "annual", 10, 0)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	_, err := fx.svc.Approve(context.Background(), managerActor, id, leave.ApproveOptions{})
	require.NoError(t, err)

	_, err = fx.svc.Approve(context.Background(), adminActor, id, leave.ApproveOptions{})
	assert.ErrorIs(t, err, leave.ErrAlreadyFinal)

	// Only the winner consumed days.
	balance, err := fx.balanceRepo.Get(context.Background(), "emp-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 2, balance.UsedDays)
}

func TestApprove_RoleRules(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("mgr-2", "annual", 10, 0)
	id := fx.seedPending(t, "mgr-2", employee.RoleReportingManager, "annual", 1)

	// A reporting manager cannot settle a peer's request.
	_, err := fx.svc.Approve(context.Background(), managerActor, id, leave.ApproveOptions{})
	assert.ErrorIs(t, err, leave.ErrApprovalForbidden)

	// An admin cannot either: only super admin outranks enough, and
	// admins are limited to plain employee requests.
	_, err = fx.svc.Approve(context.Background(), adminActor, id, leave.ApproveOptions{})
	assert.ErrorIs(t, err, leave.ErrApprovalForbidden)

	_, err = fx.svc.Approve(context.Background(), rootActor, id, leave.ApproveOptions{})
	assert.NoError(t, err)
}

func TestReject_RequiresReason(t *testing.T) {
	fx := newLeaveFixture(t)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	_, err := fx.svc.Reject(context.Background(), managerActor, id, "   ")
	assert.ErrorIs(t, err, leave.ErrRejectionReasonRequired)

	stored, err := fx.requestRepo.GetByID(context.Background(), id, "co-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, stored.Status)
}

func TestReject_DoesNotTouchBalance(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("emp-1", "annual", 10, 4)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	resp, err := fx.svc.Reject(context.Background(), managerActor, id, "coverage gap that week")
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "coverage gap that week", *resp.RejectionReason)

	balance, err := fx.balanceRepo.Get(context.Background(), "emp-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 4, balance.UsedDays)
}

func TestCancel_ApprovedReturnsDays(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("emp-1", "annual", 10, 0)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 3)

	_, err := fx.svc.Approve(context.Background(), managerActor, id, leave.ApproveOptions{})
	require.NoError(t, err)

	resp, err := fx.svc.Cancel(context.Background(), employeeActor, id)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	balance, err := fx.balanceRepo.Get(context.Background(), "emp-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.UsedDays)
}

func TestCancel_OnlyRequestorOrApprover(t *testing.T) {
	fx := newLeaveFixture(t)
	id := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	outsider := employee.Actor{EmployeeID: "emp-9", CompanyID: "co-1", Role: employee.RoleEmployee}
	_, err := fx.svc.Cancel(context.Background(), outsider, id)
	assert.ErrorIs(t, err, leave.ErrCancellationNotPermitted)
}

func TestCreate_SuperAdminAutoApproved(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("root-1", "annual", 10, 0)

	start := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 12).Format("2006-01-02")
	resp, err := fx.svc.Create(context.Background(), rootActor, &leave.CreateLeaveRequestRequest{
		LeaveTypeID: "annual",
		StartDate:   start,
		EndDate:     end,
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, 3, resp.TotalDays)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, "root-1", *resp.ApprovedBy)

	balance, err := fx.balanceRepo.Get(context.Background(), "root-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 3, balance.UsedDays)
}

func TestCreate_SuperAdminLedgerFailureLeavesNothing(t *testing.T) {
	fx := newLeaveFixture(t)
	// No balance row, so the auto-approval's ledger charge must fail
	// and the whole creation roll back.

	start := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 11).Format("2006-01-02")
	_, err := fx.svc.Create(context.Background(), rootActor, &leave.CreateLeaveRequestRequest{
		LeaveTypeID: "annual",
		StartDate:   start,
		EndDate:     end,
	})
	require.Error(t, err)

	stored, err := fx.requestRepo.ListByCompany(context.Background(), "co-1", leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCreate_InvalidDateRange(t *testing.T) {
	fx := newLeaveFixture(t)

	_, err := fx.svc.Create(context.Background(), employeeActor, &leave.CreateLeaveRequestRequest{
		LeaveTypeID: "annual",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-08",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestSweepAutoApprovals_SettlesSuperAdminRequests(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("root-1", "annual", 10, 0)
	fx.balanceRepo.seed("emp-1", "annual", 10, 0)

	rootID := fx.seedPending(t, "root-1", employee.RoleSuperAdmin, "annual", 2)
	empID := fx.seedPending(t, "emp-1", employee.RoleEmployee, "annual", 2)

	n, err := fx.svc.SweepAutoApprovals(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := fx.requestRepo.GetByID(context.Background(), rootID, "co-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, "system", *stored.ApprovedBy)

	// A plain employee's pending request waits for its approver.
	stored, err = fx.requestRepo.GetByID(context.Background(), empID, "co-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, stored.Status)

	balance, err := fx.balanceRepo.Get(context.Background(), "emp-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 0, balance.UsedDays)
}

func TestSweepAutoApprovals_Idempotent(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.balanceRepo.seed("root-1", "annual", 10, 0)
	id := fx.seedPending(t, "root-1", employee.RoleSuperAdmin, "annual", 2)

	n, err := fx.svc.SweepAutoApprovals(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second pass finds nothing pending and charges nothing twice.
	n, err = fx.svc.SweepAutoApprovals(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	stored, err := fx.requestRepo.GetByID(context.Background(), id, "co-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, stored.Status)

	balance, err := fx.balanceRepo.Get(context.Background(), "root-1", "annual")
	require.NoError(t, err)
	assert.Equal(t, 2, balance.UsedDays)
}

func TestGetByID_EmployeeScopedToOwnRequests(t *testing.T) {
	fx := newLeaveFixture(t)
	id := fx.seedPending(t, "emp-2", employee.RoleEmployee, "annual", 1)

	_, err := fx.svc.GetByID(context.Background(), employeeActor, id)
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	other := employee.Actor{EmployeeID: "emp-2", CompanyID: "co-1", Role: employee.RoleEmployee}
	resp, err := fx.svc.GetByID(context.Background(), other, id)
	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
}
