package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"kiln/internal/logging"
)

// Resolver fetches dependency coordinates and returns a classpath string.
// The broker treats the result as opaque.
type Resolver interface {
	Fetch(ctx context.Context, coordinates []string) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// Option configures the coursier client.
type Option func(*Coursier)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(c *Coursier) {
		if executor != nil {
			c.exec = executor
		}
	}
}

// WithTimeout bounds a single fetch invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coursier) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Coursier resolves coordinates by shelling out to a coursier-compatible
// `fetch --classpath` command.
type Coursier struct {
	binary  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// NewCoursier constructs a coursier-backed resolver.
func NewCoursier(binary string, logger *slog.Logger, opts ...Option) (*Coursier, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("coursier binary required")
	}
	client := &Coursier{
		binary:  binary,
		timeout: 5 * time.Minute,
		exec:    commandExecutor{},
		logger:  logging.NewComponentLogger(logger, "fetch"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Fetch resolves the coordinates into a single classpath string. Resolution
// failure is fatal to the calling flow; there is no retry here.
func (c *Coursier) Fetch(ctx context.Context, coordinates []string) (string, error) {
	if len(coordinates) == 0 {
		return "", errors.New("fetch requires at least one coordinate")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := append([]string{"fetch", "--classpath"}, coordinates...)
	start := time.Now()
	out, err := c.exec.Run(fetchCtx, c.binary, args)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", strings.Join(coordinates, " "), err)
	}

	classpath := strings.TrimSpace(out)
	if classpath == "" {
		return "", fmt.Errorf("fetch %s: resolver returned empty classpath", strings.Join(coordinates, " "))
	}
	c.logger.Debug("dependencies fetched",
		logging.Int("coordinate_count", len(coordinates)),
		logging.Duration("elapsed", time.Since(start)))
	return classpath, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%w: %s", err, detail)
		}
		return "", err
	}
	return stdout.String(), nil
}
