// Package scheduler runs the due-reminder scan on a fixed cadence.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"telegram-reminder-bot/internal/delivery"
)

// Start launches the scan loop. Each cycle snapshots "now" and hands
// everything due to the dispatcher. The job runs in singleton mode: a slow
// cycle delays the next one but never overlaps it, so reminders may fire up
// to one interval late but never early and never twice within a cycle.
// Shut the returned scheduler down to stop the loop.
func Start(d *delivery.Dispatcher, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			d.DeliverDue(time.Now())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
