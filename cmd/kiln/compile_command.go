package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kiln/internal/broker"
)

func newCompileCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var coordinates []string

	cmd := &cobra.Command{
		Use:   "compile [flags] GLOB...",
		Short: "Compile sources through the workspace compile server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			layout, err := ctx.layout()
			if err != nil {
				return err
			}

			sources, err := layout.ExpandSources(args)
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return fmt.Errorf("no sources matched %v under %s", args, layout.Root)
			}

			compileArgs := make([]string, 0, len(sources)+4)
			if len(coordinates) > 0 {
				resolver, err := ctx.resolver()
				if err != nil {
					return err
				}
				classpath, err := resolver.Fetch(cmd.Context(), coordinates)
				if err != nil {
					return err
				}
				compileArgs = append(compileArgs, "-cp", classpath)
			}
			compileArgs = append(compileArgs, "-d", outputDir)
			compileArgs = append(compileArgs, sources...)

			result, err := ctx.dispatch(cmd.Context(), layout, broker.CommandRequest{
				EntryClass: cfg.Toolchain.CompileEntryClass,
				Args:       compileArgs,
			})
			if err != nil {
				return err
			}
			if !result.Success() {
				return &exitError{op: "compile", code: result.ExitCode}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Compiled %d sources to %s\n", len(sources), outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "target/classes", "Directory for compiled output")
	cmd.Flags().StringArrayVarP(&coordinates, "dep", "d", nil, "Dependency coordinate to resolve onto the compile classpath (repeatable)")

	return cmd
}
