package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"leximi/internal/history"
	"leximi/internal/logging"
	"leximi/internal/pipeline"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Discover new videos and merge their readings into the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, r, err := ctx.beginRun(cmd, "sync")
			if err != nil {
				return err
			}
			defer r.end()

			s, err := buildSync(cfg, r.logger, dryRun)
			if err != nil {
				return err
			}
			report, runErr := s.Run(r.ctx)
			if runErr != nil {
				logging.ErrorWithContext(r.logger, "sync failed", "sync_failed", logging.Error(runErr))
			}
			recordRun(r.ctx, cfg, r.logger, syncHistory(r.id, report, runErr))
			if runErr != nil {
				return runErr
			}
			printSyncReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing files")
	return cmd
}

func syncHistory(id string, report pipeline.Report, runErr error) history.Run {
	entry := history.Run{
		ID:           id,
		Kind:         history.KindSync,
		DryRun:       report.DryRun,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		FeedItems:    report.FeedItems,
		Added:        len(report.Added),
		Skipped:      report.Skipped(),
		Warnings:     len(report.Warnings),
		FilesWritten: len(report.Written),
	}
	switch {
	case runErr != nil:
		entry.Outcome = history.OutcomeFailed
		entry.Message = runErr.Error()
	case report.Aborted:
		entry.Outcome = history.OutcomeAborted
		entry.Message = report.AbortReason
	case report.Noop():
		entry.Outcome = history.OutcomeNoop
	default:
		entry.Outcome = history.OutcomeOK
	}
	return entry
}

func printSyncReport(out io.Writer, report pipeline.Report) {
	if report.Aborted {
		fmt.Fprintf(out, "Feed unavailable, nothing changed: %s\n", report.AbortReason)
		return
	}
	prefix := ""
	if report.DryRun {
		prefix = "[dry run] "
	}
	fmt.Fprintf(out, "%sFeed items: %d, new: %d, added: %d, skipped: %d\n",
		prefix, report.FeedItems, report.NewItems, len(report.Added), report.Skipped())
	for _, added := range report.Added {
		fmt.Fprintf(out, "  + %s %s (%d readings)\n", added.PeriodKey, added.Entry.Date, len(added.Entry.Readings))
	}
	for _, key := range report.Migrated {
		fmt.Fprintf(out, "  migrated %s from legacy module\n", key)
	}
	for _, key := range report.Held {
		fmt.Fprintf(out, "  ! %s has malformed records; file left unchanged\n", key)
	}
	for _, conflict := range report.DayConflicts {
		fmt.Fprintf(out, "  ! %s day %d has %d entries\n", conflict.PeriodKey, conflict.Day, len(conflict.VideoIDs))
	}
	if len(report.Written) > 0 {
		fmt.Fprintf(out, "Wrote %d file(s)\n", len(report.Written))
	}
	if n := len(report.Warnings); n > 0 {
		fmt.Fprintf(out, "%d warning(s); see the log for details\n", n)
	}
}
