package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps cron-based background jobs. Jobs are chained with
// SkipIfStillRunning so a slow pass never overlaps the next one.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a new Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{}))),
	}
}

// ScheduleEvery registers a periodic job at the given interval.
func (s *Scheduler) ScheduleEvery(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval < time.Second {
		return 0, fmt.Errorf("interval must be at least one second, got %s", interval)
	}
	spec := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	return s.cron.AddFunc(spec, job)
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
