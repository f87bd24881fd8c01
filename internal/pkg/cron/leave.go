package cron

import (
	"context"
	"time"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/leave"
)

// LeaveJobs contains leave-related cron jobs
type LeaveJobs struct {
	leaveService leave.LeaveService
	interval     time.Duration
	now          func() time.Time
}

// NewLeaveJobs creates leave cron jobs
func NewLeaveJobs(leaveService leave.LeaveService, interval time.Duration) *LeaveJobs {
	return &LeaveJobs{
		leaveService: leaveService,
		interval:     interval,
		now:          time.Now,
	}
}

// RegisterJobs registers all leave-related cron jobs
func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(
		"leave_monthly_accrual",
		j.interval,
		j.RunAccrual,
	)
}

// RunAccrual credits monthly accrual to every active employee's balances
func (j *LeaveJobs) RunAccrual(ctx context.Context) error {
	_, err := j.leaveService.RunAccrual(ctx, j.now())
	return err
}
