package broker

import (
	"context"
	"time"

	"kiln/internal/ipc"
)

const (
	// DefaultPollInterval paces readiness probes while a server boots.
	DefaultPollInterval = 200 * time.Millisecond
	// DefaultReadyTimeout bounds the total wait for a launched server.
	DefaultReadyTimeout = 30 * time.Second
)

// Waiter polls a Prober until the server answers or the timeout elapses.
// The clock and sleep functions are injectable so the polling loop is
// testable without real delays.
type Waiter struct {
	Prober   Prober
	Interval time.Duration
	Timeout  time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// NewWaiter builds a waiter with real time sources. Zero interval or timeout
// fall back to the defaults.
func NewWaiter(prober Prober, interval, timeout time.Duration) *Waiter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	return &Waiter{
		Prober:   prober,
		Interval: interval,
		Timeout:  timeout,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// WithClock overrides the waiter's time sources. Test hook.
func (w *Waiter) WithClock(now func() time.Time, sleep func(time.Duration)) *Waiter {
	w.now = now
	w.sleep = sleep
	return w
}

// WaitUntilReady probes the address at the configured cadence until a
// connection succeeds. It terminates within Timeout plus one interval,
// returning a TimeoutError carrying the elapsed duration and the limit.
func (w *Waiter) WaitUntilReady(ctx context.Context, addr string) (*ipc.Client, error) {
	start := w.now()
	for {
		client, err := w.Prober.Probe(addr)
		if err == nil {
			return client, nil
		}

		elapsed := w.now().Sub(start)
		if elapsed >= w.Timeout {
			return nil, &TimeoutError{Addr: addr, Elapsed: elapsed, Limit: w.Timeout}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		w.sleep(w.Interval)
	}
}
