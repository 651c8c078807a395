package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kiln/internal/preflight"
	"kiln/internal/sockpath"
)

func newServerCommand(ctx *commandContext) *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Inspect and control the workspace compile server",
	}
	serverCmd.AddCommand(newServerStatusCommand(ctx))
	serverCmd.AddCommand(newServerStopCommand(ctx))
	return serverCmd
}

func newServerStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show toolchain, workspace, and server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			layout, err := ctx.layout()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			checks := preflight.CheckToolchain(cfg)
			toolchain := make([]statusLine, 0, len(checks))
			for _, result := range checks {
				toolchain = append(toolchain, statusFromCheck(result))
			}
			printSection(stdout, "Toolchain", colorize, toolchain...)

			printSection(stdout, "Workspace", colorize,
				statusFromCheck(preflight.CheckDirectoryAccess("Root", layout.Root)))

			sup, err := ctx.supervisor(layout)
			if err != nil {
				return err
			}
			client, probeErr := sup.Probe(cfg.Server.Service)
			if probeErr != nil {
				printSection(stdout, "Server", colorize,
					statusLine{label: cfg.Server.Service, kind: statusInfo, detail: "not running"})
				return nil
			}
			defer client.Close()

			pong, err := client.Ping()
			if err != nil {
				return wrapDialError(err, sockpath.Resolve(layout.Root, cfg.Server.Service))
			}
			detail := fmt.Sprintf("running (pid %d, instance %s, since %s)", pong.PID, pong.InstanceID, pong.StartedAt)
			printSection(stdout, "Server", colorize,
				statusLine{label: cfg.Server.Service, kind: statusOK, detail: detail})
			return nil
		},
	}
}

func newServerStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the workspace compile server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			layout, err := ctx.layout()
			if err != nil {
				return err
			}
			sup, err := ctx.supervisor(layout)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			client, probeErr := sup.Probe(cfg.Server.Service)
			if probeErr != nil {
				fmt.Fprintln(stdout, "Server is not running")
				return nil
			}
			defer client.Close()

			resp, err := client.Shutdown()
			if err != nil {
				return wrapDialError(err, sockpath.Resolve(layout.Root, cfg.Server.Service))
			}
			if resp.Stopping {
				fmt.Fprintln(stdout, "Server stopping")
			} else {
				fmt.Fprintln(stdout, "Stop request sent")
			}
			return nil
		},
	}
}
