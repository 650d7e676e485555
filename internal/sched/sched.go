// Package sched runs the unattended blanking schedule: cron-style specs
// from the config power the panel down at night and back up in the
// morning.
package sched

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"panelctl/internal/config"
	"panelctl/internal/ctl"
	appLog "panelctl/internal/log"
)

// Scheduler wraps a cron runner bound to a panel controller.
type Scheduler struct {
	cron *cron.Cron
}

// New builds the scheduler from the config. Empty specs disable the
// corresponding job; a config with neither produces a scheduler that does
// nothing, which is fine.
func New(cfg config.ScheduleConfig, ctrl *ctl.Controller) (*Scheduler, error) {
	c := cron.New()

	if cfg.Off != "" {
		_, err := c.AddFunc(cfg.Off, func() {
			appLog.Info("sched: scheduled power down")
			if err := ctrl.Down(); err != nil {
				appLog.Error("sched: power down failed", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("sched: bad off spec %q: %w", cfg.Off, err)
		}
	}

	if cfg.On != "" {
		_, err := c.AddFunc(cfg.On, func() {
			appLog.Info("sched: scheduled power up")
			if err := ctrl.Up(); err != nil {
				appLog.Error("sched: power up failed", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("sched: bad on spec %q: %w", cfg.On, err)
		}
	}

	return &Scheduler{cron: c}, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Jobs reports how many schedule entries are armed.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
