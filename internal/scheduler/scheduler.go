// Package scheduler drives the clock-based work of the ledger: re-evaluating
// the realization queue and sending the daily reminder.
package scheduler

import (
	"context"
	"fmt"

	"github.com/Madushan-tech/CashFlow/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Jobs is the work run on each tick
type Jobs interface {
	Refresh() []string
	SendReminder(ctx context.Context) (bool, error)
}

// Scheduler runs Jobs on cron schedules
type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
	log  *logrus.Logger
}

// New registers the realization and reminder entries from cfg. An empty
// reminder schedule disables reminders.
func New(cfg *config.Config, jobs Jobs, log *logrus.Logger) (*Scheduler, error) {
	cronLog := cron.PrintfLogger(log)
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		jobs: jobs,
		log:  log,
	}

	if _, err := s.cron.AddFunc(cfg.RealizationSchedule, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid realization schedule %q: %w", cfg.RealizationSchedule, err)
	}
	if cfg.ReminderSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.ReminderSchedule, s.remind); err != nil {
			return nil, fmt.Errorf("invalid reminder schedule %q: %w", cfg.ReminderSchedule, err)
		}
	}
	return s, nil
}

// Start runs the schedules in the background
func (s *Scheduler) Start() {
	s.log.Infof("Scheduler started with %d entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop stops the schedules and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) refresh() {
	due := s.jobs.Refresh()
	if len(due) > 0 {
		s.log.Debugf("%d transactions awaiting realization", len(due))
	}
}

func (s *Scheduler) remind() {
	sent, err := s.jobs.SendReminder(context.Background())
	if err != nil {
		s.log.Errorf("Failed to send reminder: %v", err)
		return
	}
	if sent {
		s.log.Info("Realization reminder sent")
	}
}
