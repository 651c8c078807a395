package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"kiln/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent commands dispatched in this workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := ctx.layout()
			if err != nil {
				return err
			}

			store, err := history.Open(layout.HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			stdout := cmd.OutOrStdout()
			recent, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				fmt.Fprintln(stdout, "No recorded invocations")
				return nil
			}

			fmt.Fprintln(stdout, renderInvocationTable(recent))

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%d total, %d succeeded, %d failed\n", stats.Total, stats.Succeeded, stats.Failed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of invocations to show")
	return cmd
}

// renderInvocationTable lays out ledger rows newest first. Exit and elapsed
// columns are right-aligned so codes and durations line up when scanning.
func renderInvocationTable(invocations []history.Invocation) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Started", "Entry", "Args", "Exit", "Elapsed"})
	for _, inv := range invocations {
		tw.AppendRow(table.Row{
			inv.StartedAt.Local().Format(time.DateTime),
			inv.EntryClass,
			summarizeArgs(inv.Args),
			inv.ExitCode,
			inv.Duration.Round(time.Millisecond),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func summarizeArgs(args []string) string {
	joined := strings.Join(args, " ")
	const max = 60
	if len(joined) > max {
		return joined[:max-3] + "..."
	}
	return joined
}
