package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var workspaceFlag string
	var configFlag string

	ctx := newCommandContext(&workspaceFlag, &configFlag)

	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "Workspace compile server broker",
		Long:          "kiln keeps JVM compile servers warm per workspace and brokers commands to them over unix sockets.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace root directory (defaults to the current directory)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newCompileCommand(ctx))
	rootCmd.AddCommand(newServerCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
