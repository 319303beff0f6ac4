// Package scheduler runs the daily reminder sweep.  Once per interval
// it asks the booking lifecycle to dispatch a reminder email for every
// confirmed reservation starting the next day.  The sweep is read-only
// with respect to reservation state and keeps no "reminded" bookkeeping,
// so running it more than once a day re-sends.
package scheduler

import (
    "context"
    "log"
    "time"
)

// reminderSender is the slice of the booking lifecycle the scheduler
// needs.
type reminderSender interface {
    SendReminders(ctx context.Context, now time.Time) (int, error)
}

// Scheduler ticks at a fixed interval and triggers the reminder sweep.
type Scheduler struct {
    booking  reminderSender
    interval time.Duration
}

// New constructs a Scheduler.  For production use the interval is 24h;
// tests shrink it.
func New(booking reminderSender, interval time.Duration) *Scheduler {
    if booking == nil {
        panic("nil reminder sender passed to scheduler.New")
    }
    return &Scheduler{booking: booking, interval: interval}
}

// Start blocks, running one sweep per interval until the context is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()

    log.Printf("scheduler: reminder sweep started (interval=%s)", s.interval)

    for {
        select {
        case <-ctx.Done():
            log.Printf("scheduler: reminder sweep stopped")
            return
        case <-ticker.C:
            s.tick(ctx)
        }
    }
}

func (s *Scheduler) tick(ctx context.Context) {
    sent, err := s.booking.SendReminders(ctx, time.Now())
    if err != nil {
        log.Printf("scheduler: reminder sweep failed: %v", err)
        return
    }
    if sent > 0 {
        log.Printf("scheduler: dispatched %d reservation reminders", sent)
    }
}
