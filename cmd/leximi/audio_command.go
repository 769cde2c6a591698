package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"leximi/internal/audio"
	"leximi/internal/history"
	"leximi/internal/logging"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Download or link audio files for entries without one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0")
			}
			cfg, r, err := ctx.beginRun(cmd, "audio")
			if err != nil {
				return err
			}
			defer r.end()

			b, err := buildBackfiller(cfg, r.logger, limit, dryRun)
			if err != nil {
				return err
			}
			report, runErr := b.Run(r.ctx)
			if runErr != nil {
				logging.ErrorWithContext(r.logger, "audio pass failed", "audio_failed", logging.Error(runErr))
			}
			recordRun(r.ctx, cfg, r.logger, audioHistory(r.id, report, runErr))
			if runErr != nil {
				return runErr
			}
			printAudioReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be downloaded without downloading")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum downloads this run (0 uses audio.max_downloads)")
	return cmd
}

func audioHistory(id string, report audio.Report, runErr error) history.Run {
	entry := history.Run{
		ID:           id,
		Kind:         history.KindAudio,
		DryRun:       report.DryRun,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		Added:        report.Linked,
		Downloaded:   len(report.Downloaded),
		Skipped:      report.Failed + report.Deferred,
		Warnings:     len(report.Warnings),
		FilesWritten: len(report.Written),
	}
	switch {
	case runErr != nil:
		entry.Outcome = history.OutcomeFailed
		entry.Message = runErr.Error()
	case report.Noop():
		entry.Outcome = history.OutcomeNoop
	default:
		entry.Outcome = history.OutcomeOK
	}
	return entry
}

func printAudioReport(out io.Writer, report audio.Report) {
	if report.DryRun {
		fmt.Fprintf(out, "[dry run] would link %d and download %d file(s)\n", report.Linked, len(report.Pending))
		if len(report.Pending) > 0 {
			fmt.Fprintf(out, "  %s\n", strings.Join(report.Pending, "\n  "))
		}
		return
	}
	fmt.Fprintf(out, "Linked: %d, downloaded: %d (%s), failed: %d, deferred: %d\n",
		report.Linked,
		len(report.Downloaded),
		humanize.IBytes(uint64(report.Bytes())),
		report.Failed,
		report.Deferred,
	)
	for _, d := range report.Downloaded {
		fmt.Fprintf(out, "  + %s (%s)\n", d.Name, humanize.IBytes(uint64(d.Size)))
	}
	if report.Held > 0 {
		fmt.Fprintf(out, "  ! %d period(s) skipped: malformed records must be repaired first\n", report.Held)
	}
}
