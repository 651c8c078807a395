package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"kiln/internal/ipc"
	"kiln/internal/sockpath"
)

// builtinCommands are the entry points the in-process server understands.
// They exist for protocol smoke tests and for exercising the broker without
// a JVM: ok always succeeds, fail always fails, and exit echoes its first
// argument back as an exit code.
func builtinCommands() map[string]ipc.CommandFunc {
	return map[string]ipc.CommandFunc{
		"kiln.diag.Ok":   func(ctx context.Context, args []string) int { return 0 },
		"kiln.diag.Fail": func(ctx context.Context, args []string) int { return 1 },
		"kiln.diag.Exit": func(ctx context.Context, args []string) int {
			if len(args) == 0 {
				return 0
			}
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return 2
			}
			return code
		},
	}
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var socketFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host an in-process diagnostic command server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			socket := socketFlag
			if socket == "" {
				layout, err := ctx.layout()
				if err != nil {
					return err
				}
				if err := layout.Ensure(); err != nil {
					return err
				}
				socket = sockpath.Resolve(layout.Root, cfg.Server.Service)
			} else if err := os.MkdirAll(filepath.Dir(socket), 0o755); err != nil {
				return fmt.Errorf("ensure socket directory: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server, err := ipc.NewServer(runCtx, socket, builtinCommands(), logger)
			if err != nil {
				return err
			}
			defer server.Close()
			server.Serve()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", socket)
			<-server.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&socketFlag, "socket", "", "Socket path to bind (defaults to the workspace service socket)")
	return cmd
}
