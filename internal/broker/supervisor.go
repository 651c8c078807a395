package broker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"kiln/internal/ipc"
	"kiln/internal/logging"
	"kiln/internal/sockpath"
)

// Supervisor guarantees a single live command server per service name within
// a workspace. Liveness is inferred by probing rather than tracked through a
// process handle; a server that dies is simply relaunched on the next ensure.
type Supervisor struct {
	workspaceRoot string
	launcher      Launcher
	prober        Prober
	waiter        *Waiter
	logger        *slog.Logger
}

// Option customizes supervisor construction.
type Option func(*Supervisor)

// WithProber overrides the connection prober. Test hook.
func WithProber(p Prober) Option {
	return func(s *Supervisor) { s.prober = p }
}

// WithWaiter overrides the readiness waiter.
func WithWaiter(w *Waiter) Option {
	return func(s *Supervisor) { s.waiter = w }
}

// WithLogger attaches a logger to the supervisor.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = logger }
}

// WithPolling configures the readiness polling cadence and budget.
func WithPolling(interval, timeout time.Duration) Option {
	return func(s *Supervisor) { s.waiter = NewWaiter(nil, interval, timeout) }
}

// NewSupervisor builds a supervisor rooted at an explicit workspace
// directory. There is no ambient global state; every resolved path derives
// from workspaceRoot.
func NewSupervisor(workspaceRoot string, launcher Launcher, opts ...Option) *Supervisor {
	s := &Supervisor{
		workspaceRoot: workspaceRoot,
		launcher:      launcher,
		prober:        DialProber{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.waiter == nil {
		s.waiter = NewWaiter(s.prober, 0, 0)
	}
	if s.waiter.Prober == nil {
		s.waiter.Prober = s.prober
	}
	s.logger = logging.NewComponentLogger(s.logger, "broker")
	return s
}

// EnsureRunning returns a connection to the named service, launching its
// server first when none is reachable. Repeated and concurrent calls converge
// on one live server per name: the per-service launch lock serializes
// launches within the workspace, and a caller that loses the lock waits for
// the winner's server instead of spawning a second one.
func (s *Supervisor) EnsureRunning(ctx context.Context, service string, spec LaunchSpec, workDir string) (*ipc.Client, error) {
	if err := sockpath.ValidateService(service); err != nil {
		return nil, err
	}
	addr := sockpath.Resolve(s.workspaceRoot, service)

	if client, err := s.prober.Probe(addr); err == nil {
		s.logger.Debug("server already running",
			logging.String(logging.FieldService, service),
			logging.String(logging.FieldSocket, addr))
		return client, nil
	}

	if err := os.MkdirAll(filepath.Dir(addr), 0o755); err != nil {
		return nil, fmt.Errorf("ensure socket directory: %w", err)
	}

	lock := flock.New(sockpath.LockPath(s.workspaceRoot, service))
	// Close releases both the lock and its file descriptor, on the loser
	// path as well as the winner's.
	defer func() { _ = lock.Close() }()
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire launch lock for %s: %w", service, err)
	}
	if !locked {
		// Another invocation is launching this service; wait for its server.
		s.logger.Debug("launch lock held elsewhere, waiting",
			logging.String(logging.FieldService, service))
		return s.waiter.WaitUntilReady(ctx, addr)
	}

	// The winner of a lock race may already have finished launching.
	if client, err := s.prober.Probe(addr); err == nil {
		return client, nil
	}

	if err := os.Remove(addr); err != nil && !os.IsNotExist(err) {
		return nil, &StaleSocketError{Addr: addr, Err: err}
	}

	s.logger.Info("launching server",
		logging.String(logging.FieldEventType, "server_launch"),
		logging.String(logging.FieldService, service),
		logging.String(logging.FieldSocket, addr),
		logging.String(logging.FieldEntryClass, spec.EntryClass))
	if err := s.launcher.Launch(addr, spec, workDir); err != nil {
		return nil, err
	}

	client, err := s.waiter.WaitUntilReady(ctx, addr)
	if err != nil {
		return nil, err
	}
	s.logger.Info("server ready",
		logging.String(logging.FieldEventType, "server_ready"),
		logging.String(logging.FieldService, service),
		logging.String(logging.FieldSocket, addr))
	return client, nil
}

// Probe reports whether the named service is currently reachable without
// launching anything.
func (s *Supervisor) Probe(service string) (*ipc.Client, error) {
	if err := sockpath.ValidateService(service); err != nil {
		return nil, err
	}
	return s.prober.Probe(sockpath.Resolve(s.workspaceRoot, service))
}
