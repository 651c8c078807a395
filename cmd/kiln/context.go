package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kiln/internal/broker"
	"kiln/internal/config"
	"kiln/internal/fetch"
	"kiln/internal/history"
	"kiln/internal/ipc"
	"kiln/internal/logging"
	"kiln/internal/workspace"
)

type commandContext struct {
	workspaceFlag *string
	configFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(workspaceFlag, configFlag *string) *commandContext {
	return &commandContext{
		workspaceFlag: workspaceFlag,
		configFlag:    configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// layout resolves the workspace layout from the --workspace flag, defaulting
// to the current directory. The root is always explicit from here on; nothing
// below the CLI consults process-wide state.
func (c *commandContext) layout() (workspace.Layout, error) {
	root := "."
	if c.workspaceFlag != nil {
		if trimmed := strings.TrimSpace(*c.workspaceFlag); trimmed != "" {
			root = trimmed
		}
	}
	return workspace.New(root)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	var err error
	c.loggerOnce.Do(func() {
		cfg, cfgErr := c.ensureConfig()
		if cfgErr != nil {
			err = cfgErr
			return
		}
		logger, buildErr := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if buildErr != nil {
			err = buildErr
			return
		}
		c.logger = logger
	})
	if err != nil {
		return nil, err
	}
	if c.logger == nil {
		return logging.NewNop(), nil
	}
	return c.logger, nil
}

func (c *commandContext) supervisor(layout workspace.Layout) (*broker.Supervisor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	launcher := broker.CommandLauncher{JavaBinary: cfg.Toolchain.JavaBinary, Logger: logger}
	return broker.NewSupervisor(layout.Root, launcher,
		broker.WithPolling(cfg.PollInterval(), cfg.ReadyTimeout()),
		broker.WithLogger(logger),
	), nil
}

func (c *commandContext) resolver() (fetch.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return fetch.NewCoursier(cfg.Toolchain.CoursierBinary, logger)
}

// connect returns a connection to the workspace's compile server, launching it
// first when none is reachable. Dependency resolution only happens on the
// launch path; a live server never costs a fetch.
func (c *commandContext) connect(ctx context.Context, layout workspace.Layout) (*ipc.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	sup, err := c.supervisor(layout)
	if err != nil {
		return nil, err
	}

	if client, probeErr := sup.Probe(cfg.Server.Service); probeErr == nil {
		return client, nil
	}

	if err := layout.Ensure(); err != nil {
		return nil, err
	}

	resolver, err := c.resolver()
	if err != nil {
		return nil, err
	}
	classpath, err := resolver.Fetch(ctx, cfg.Toolchain.CompilerCoordinates)
	if err != nil {
		return nil, err
	}
	var bootClasspath string
	if len(cfg.Toolchain.BootCoordinates) > 0 {
		bootClasspath, err = resolver.Fetch(ctx, cfg.Toolchain.BootCoordinates)
		if err != nil {
			return nil, err
		}
	}

	spec := broker.LaunchSpec{
		BootClasspath: bootClasspath,
		Classpath:     classpath,
		EntryClass:    cfg.Toolchain.ServerEntryClass,
		Args:          cfg.Toolchain.ServerArgs,
	}
	return sup.EnsureRunning(ctx, cfg.Server.Service, spec, layout.Root)
}

// dispatch runs one command over a fresh connection and records the outcome
// in the workspace ledger when enabled.
func (c *commandContext) dispatch(ctx context.Context, layout workspace.Layout, req broker.CommandRequest) (broker.CommandResult, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return broker.CommandResult{}, err
	}

	client, err := c.connect(ctx, layout)
	if err != nil {
		return broker.CommandResult{}, err
	}
	defer client.Close()

	started := time.Now()
	result, err := broker.Dispatch(client, req)
	if err != nil {
		return broker.CommandResult{}, err
	}

	if cfg.History.Enabled {
		c.recordInvocation(ctx, layout, cfg.Server.Service, req, result, started)
	}
	return result, nil
}

// recordInvocation is best effort; ledger trouble never fails the command.
func (c *commandContext) recordInvocation(ctx context.Context, layout workspace.Layout, service string, req broker.CommandRequest, result broker.CommandResult, started time.Time) {
	logger, err := c.ensureLogger()
	if err != nil {
		return
	}
	store, err := history.Open(layout.HistoryDBPath())
	if err != nil {
		logger.Warn("open invocation ledger", logging.Error(err))
		return
	}
	defer store.Close()
	if _, err := store.Record(ctx, history.Invocation{
		Service:    service,
		EntryClass: req.EntryClass,
		Args:       req.Args,
		ExitCode:   result.ExitCode,
		InstanceID: result.InstanceID,
		StartedAt:  started,
		Duration:   time.Since(started),
	}); err != nil {
		logger.Warn("record invocation", logging.Error(err))
	}
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to server: socket %s not found; it starts on the next compile", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to server: socket %s refused the connection; the server may have exited", socket)
	default:
		return fmt.Errorf("connect to server: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
