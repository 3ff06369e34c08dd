package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffsync/hrops-backend-go/internal/domain/attendance"
	"github.com/staffsync/hrops-backend-go/internal/domain/leave"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
)

// SweepJobs reconciles pending entries authored by a super admin to
// their approved state. Each pass re-checks conditions, so running it
// twice in a row is harmless.
type SweepJobs struct {
	leaveSvc      leave.LeaveRequestService
	attendanceSvc attendance.AttendanceService
	db            *database.DB
	interval      time.Duration
}

func NewSweepJobs(
	leaveSvc leave.LeaveRequestService,
	attendanceSvc attendance.AttendanceService,
	db *database.DB,
	interval time.Duration,
) *SweepJobs {
	return &SweepJobs{
		leaveSvc:      leaveSvc,
		attendanceSvc: attendanceSvc,
		db:            db,
		interval:      interval,
	}
}

func (j *SweepJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_approve_leave_requests", j.interval, j.SweepLeaveRequests)
	scheduler.AddJob("auto_approve_attendance_corrections", j.interval, j.SweepAttendanceCorrections)
}

func (j *SweepJobs) SweepLeaveRequests(ctx context.Context) error {
	companyIDs, err := j.activeCompanyIDs(ctx)
	if err != nil {
		return err
	}

	total := 0
	for _, companyID := range companyIDs {
		n, err := j.leaveSvc.SweepAutoApprovals(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Leave sweep failed for company", "company_id", companyID, "error", err)
			continue
		}
		total += n
	}

	if total > 0 {
		slog.Info("Cron: Auto-approved super admin leave requests", "count", total)
	}
	return nil
}

func (j *SweepJobs) SweepAttendanceCorrections(ctx context.Context) error {
	companyIDs, err := j.activeCompanyIDs(ctx)
	if err != nil {
		return err
	}

	total := 0
	for _, companyID := range companyIDs {
		n, err := j.attendanceSvc.SweepAutoApprovals(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Attendance sweep failed for company", "company_id", companyID, "error", err)
			continue
		}
		total += n
	}

	if total > 0 {
		slog.Info("Cron: Auto-approved super admin attendance corrections", "count", total)
	}
	return nil
}

func (j *SweepJobs) activeCompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := j.db.Pool.Query(ctx, `
		SELECT DISTINCT company_id FROM employees
		WHERE is_active = true AND deleted_at IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			continue
		}
		companyIDs = append(companyIDs, companyID)
	}
	return companyIDs, nil
}
