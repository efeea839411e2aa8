package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/brazzinioc/twitter-api/internal/services"
)

// Scheduler runs collection snapshots on a cron schedule.
type Scheduler struct {
	backupSvc services.BackupServiceProvider
	schedule  cron.Schedule
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewScheduler creates a scheduler from a standard cron expression.
func NewScheduler(backupSvc services.BackupServiceProvider, cronExpr string) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		backupSvc: backupSvc,
		schedule:  schedule,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting background snapshot scheduler")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background snapshot scheduler")
			return
		case <-s.ticker.C:
			s.runDueSnapshot()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// runDueSnapshot creates a snapshot if the scheduled time has passed.
func (s *Scheduler) runDueSnapshot() {
	now := time.Now()
	if now.Before(s.nextRun) {
		return
	}
	s.nextRun = s.schedule.Next(now)

	if _, err := s.backupSvc.CreateSnapshot(); err != nil {
		log.Error().Err(err).Msg("Scheduled snapshot failed")
	}
}
