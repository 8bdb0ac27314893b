package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// LogPurger deletes request logs older than a cutoff; *database.Store satisfies it.
type LogPurger interface {
	PurgeLogs(ctx context.Context, cutoff time.Time) (int64, error)
}

// LogRetention removes request logs once they are older than Retention.
type LogRetention struct {
	Purger    LogPurger
	Retention time.Duration
	// At is the daily run time, "HH:MM"
	At  string
	now func() time.Time
}

// NewLogRetention keeps logs for the given number of days.
func NewLogRetention(purger LogPurger, days int) *LogRetention {
	return &LogRetention{
		Purger:    purger,
		Retention: time.Duration(days) * 24 * time.Hour,
		At:        "03:00",
		now:       time.Now,
	}
}

// Run purges once and returns how many rows went.
func (r *LogRetention) Run(ctx context.Context) (int64, error) {
	if r.Retention <= 0 {
		return 0, nil
	}
	cutoff := r.now().Add(-r.Retention)
	n, err := r.Purger.PurgeLogs(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge logs before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return n, nil
}

// Start schedules Run every day at At (and once at startup).
func (r *LogRetention) Start() (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.Local)

	_, err := scheduler.Every(1).Day().At(r.At).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := r.Run(ctx)
		if err != nil {
			log.Printf("Error purging logs: %v", err)
			return
		}
		log.Printf("Log retention: %d rows purged", n)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule log retention at %q: %w", r.At, err)
	}

	scheduler.StartAsync()
	log.Println("Log retention cron job started")

	return scheduler, nil
}
