package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reaper is the part of the call manager the job drives.
type Reaper interface {
	Reap(ctx context.Context) (timedOut, removed int)
}

// SessionReaperJob periodically times out stuck calls and forgets idle sessions.
type SessionReaperJob struct {
	reaper   Reaper
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewSessionReaperJob(reaper Reaper, schedule string, logger *zap.Logger) *SessionReaperJob {
	return &SessionReaperJob{
		reaper:   reaper,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start begins the scheduled job
func (j *SessionReaperJob) Start() error {
	j.logger.Info("Starting session reaper", zap.String("schedule", j.schedule))

	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session reaper: %w", err)
	}

	j.cron.Start()
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *SessionReaperJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Session reaper stopped")
	}
}

// RunOnce performs a single reaping pass
func (j *SessionReaperJob) RunOnce(ctx context.Context) (timedOut, removed int) {
	timedOut, removed = j.reaper.Reap(ctx)
	if timedOut > 0 || removed > 0 {
		j.logger.Debug("Session reaper pass", zap.Int("timed_out", timedOut), zap.Int("removed", removed))
	}
	return timedOut, removed
}
