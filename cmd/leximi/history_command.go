package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"leximi/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sync and audio runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}
			if _, err := os.Stat(cfg.HistoryPath()); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderHistoryTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		outcome := string(run.Outcome)
		if run.DryRun {
			outcome += " (dry run)"
		}
		rows = append(rows, []string{
			humanize.Time(run.StartedAt),
			string(run.Kind),
			outcome,
			strconv.Itoa(run.Added),
			strconv.Itoa(run.Downloaded),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Warnings),
			run.Duration().Round(100 * time.Millisecond).String(),
		})
	}
	return renderTable([]column{
		{title: "Started"},
		{title: "Kind"},
		{title: "Outcome"},
		{title: "Added", numeric: true},
		{title: "Downloaded", numeric: true},
		{title: "Skipped", numeric: true},
		{title: "Warnings", numeric: true},
		{title: "Took", numeric: true},
	}, rows)
}
