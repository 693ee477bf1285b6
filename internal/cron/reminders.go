package cron

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"practice-booking-server/internal/scheduling"
)

// ReminderSweeper periodically nudges staff about proposals that have been
// waiting on a patient response too long.
type ReminderSweeper struct {
	Scheduler *scheduling.Service
	Log       *zap.Logger
}

// NewReminderSweeper creates a new reminder sweeper.
func NewReminderSweeper(scheduler *scheduling.Service, log *zap.Logger) *ReminderSweeper {
	return &ReminderSweeper{Scheduler: scheduler, Log: log}
}

// Start launches the sweep on an hourly schedule and returns the scheduler
// so the caller can stop it on shutdown.
func (rs *ReminderSweeper) Start() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(1).Hour().Do(func() {
		summary, err := rs.Scheduler.RunReminderSweep(0)
		if err != nil {
			rs.Log.Error("reminder sweep failed", zap.Error(err))
			return
		}
		if summary.Count > 0 {
			rs.Log.Info("reminder digest sent", zap.Int("proposals", summary.Count))
		}
	})

	scheduler.StartAsync()
	rs.Log.Info("reminder sweep scheduled")

	return scheduler
}
