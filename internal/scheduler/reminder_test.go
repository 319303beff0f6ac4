package scheduler

import (
    "context"
    "errors"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

type countingSender struct {
    calls int64
    err   error
}

func (c *countingSender) SendReminders(_ context.Context, _ time.Time) (int, error) {
    atomic.AddInt64(&c.calls, 1)
    if c.err != nil {
        return 0, c.err
    }
    return 1, nil
}

func (c *countingSender) count() int64 { return atomic.LoadInt64(&c.calls) }

func TestScheduler_TicksUntilCancelled(t *testing.T) {
    sender := &countingSender{}
    s := New(sender, 10*time.Millisecond)

    ctx, cancel := context.WithCancel(context.Background())
    done := make(chan struct{})
    go func() {
        s.Start(ctx)
        close(done)
    }()

    assert.Eventually(t, func() bool { return sender.count() >= 2 },
        time.Second, 5*time.Millisecond, "expected at least two sweeps")

    cancel()
    select {
    case <-done:
    case <-time.After(time.Second):
        t.Fatal("scheduler did not stop after context cancellation")
    }
}

func TestScheduler_SweepErrorDoesNotStopLoop(t *testing.T) {
    sender := &countingSender{err: errors.New("store unavailable")}
    s := New(sender, 10*time.Millisecond)

    ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
    defer cancel()
    s.Start(ctx)

    assert.GreaterOrEqual(t, sender.count(), int64(2), "loop must survive sweep errors")
}

func TestNew_NilSenderPanics(t *testing.T) {
    assert.Panics(t, func() { New(nil, time.Hour) })
}
