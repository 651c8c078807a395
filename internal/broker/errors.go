package broker

import (
	"fmt"
	"time"
)

// ConnectError reports a failed connection attempt to a server socket. The
// absence of a listener is an expected condition, so callers retry or launch
// rather than abort on it.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TimeoutError reports that a server did not become ready within the
// configured budget.
type TimeoutError struct {
	Addr    string
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("server at %s not ready after %s (limit %s)", e.Addr, e.Elapsed.Round(time.Millisecond), e.Limit)
}

// SpawnError reports that the server process could not be started. It is
// fatal and never retried.
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// StaleSocketError reports that an existing socket file could not be removed
// for a reason other than non-existence.
type StaleSocketError struct {
	Addr string
	Err  error
}

func (e *StaleSocketError) Error() string {
	return fmt.Sprintf("remove stale socket %s: %v", e.Addr, e.Err)
}

func (e *StaleSocketError) Unwrap() error { return e.Err }

// NotFoundError reports that the dispatched entry class is unknown to the
// running server, signaled via the protocol's reserved exit code.
type NotFoundError struct {
	EntryClass string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %s not known to server", e.EntryClass)
}
