package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kiln/internal/broker"
	"kiln/internal/preflight"
)

// runBootstrap is the bare `kiln` invocation: make sure the toolchain, the
// workspace, and its compile server exist, then hand the workspace sources to
// the configured install entry point. First run in a fresh checkout goes from
// nothing to a built workspace; later runs reuse the warm server.
func runBootstrap(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	if missing := preflight.MissingRequired(preflight.CheckToolchain(cfg)); len(missing) > 0 {
		return fmt.Errorf("missing toolchain dependencies: %s (check java_binary and coursier_binary in the config)", strings.Join(missing, ", "))
	}

	layout, err := ctx.layout()
	if err != nil {
		return err
	}
	if err := layout.Ensure(); err != nil {
		return err
	}

	sources, err := layout.ExpandSources(cfg.Bootstrap.SourceGlobs)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources matched %v under %s", cfg.Bootstrap.SourceGlobs, layout.Root)
	}

	args := make([]string, 0, len(cfg.Bootstrap.InstallArgs)+len(sources)+2)
	args = append(args, cfg.Bootstrap.InstallArgs...)
	args = append(args, "-d", cfg.Bootstrap.OutputDir)
	args = append(args, sources...)

	result, err := ctx.dispatch(cmd.Context(), layout, broker.CommandRequest{
		EntryClass: cfg.Bootstrap.InstallEntryClass,
		Args:       args,
	})
	if err != nil {
		return err
	}

	if !result.Success() {
		return &exitError{op: "install", code: result.ExitCode}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %d sources to %s\n", len(sources), cfg.Bootstrap.OutputDir)
	return nil
}
