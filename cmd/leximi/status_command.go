package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"leximi/internal/config"
	"leximi/internal/dataset"
	"leximi/internal/history"
	"leximi/internal/period"
)

type periodStatus struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Entries    int    `json:"entries"`
	WithAudio  int    `json:"withAudio"`
	AudioBytes int64  `json:"audioBytes"`
	LastDay    int    `json:"lastDay"`
}

type statusView struct {
	ConfigPath string         `json:"configPath"`
	DataDir    string         `json:"dataDir"`
	Periods    []periodStatus `json:"periods"`
	Total      int            `json:"total"`
	Malformed  int            `json:"malformed"`
	LastRun    *lastRunView   `json:"lastRun,omitempty"`
}

type lastRunView struct {
	Kind       string    `json:"kind"`
	Outcome    string    `json:"outcome"`
	FinishedAt time.Time `json:"finishedAt"`
	Added      int       `json:"added"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show dataset coverage per period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			view, err := buildStatusView(cmd, cfg, ctx.configPath)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			renderStatus(cmd, view)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func buildStatusView(cmd *cobra.Command, cfg *config.Config, configPath string) (statusView, error) {
	table := period.Default()
	store, err := newDatasetStore(cfg, table)
	if err != nil {
		return statusView{}, err
	}
	loaded, err := store.Load()
	if err != nil {
		return statusView{}, err
	}

	view := statusView{ConfigPath: configPath, DataDir: cfg.Paths.DataDir, Malformed: len(loaded.Warnings)}
	for _, p := range table.All() {
		entries := loaded.Dataset[p.Key]
		if len(entries) == 0 {
			continue
		}
		view.Periods = append(view.Periods, summarizePeriod(cfg, p, entries))
		view.Total += len(entries)
	}

	if cfg.History.Enabled {
		if runs := latestRuns(cmd, cfg); len(runs) > 0 {
			last := runs[0]
			view.LastRun = &lastRunView{
				Kind:       string(last.Kind),
				Outcome:    string(last.Outcome),
				FinishedAt: last.FinishedAt,
				Added:      last.Added,
			}
		}
	}
	return view, nil
}

func summarizePeriod(cfg *config.Config, p period.Period, entries []dataset.DayEntry) periodStatus {
	status := periodStatus{Key: p.Key, Label: p.Label, Entries: len(entries)}
	for _, entry := range entries {
		if entry.Day > status.LastDay {
			status.LastDay = entry.Day
		}
		if entry.AudioFile == "" {
			continue
		}
		status.WithAudio++
		if info, err := os.Stat(filepath.Join(cfg.Paths.AudioDir, entry.AudioFile)); err == nil {
			status.AudioBytes += info.Size()
		}
	}
	return status
}

func latestRuns(cmd *cobra.Command, cfg *config.Config) []history.Run {
	if _, err := os.Stat(cfg.HistoryPath()); err != nil {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil
	}
	defer store.Close()
	runs, err := store.List(cmd.Context(), 1)
	if err != nil {
		return nil
	}
	return runs
}

func renderStatus(cmd *cobra.Command, view statusView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Dataset", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Data directory", statusInfo, view.DataDir, colorize))
	if view.ConfigPath != "" {
		fmt.Fprintln(out, renderStatusLine("Config", statusInfo, view.ConfigPath, colorize))
	}
	if view.Malformed > 0 {
		fmt.Fprintln(out, renderStatusLine("Malformed records", statusWarn, strconv.Itoa(view.Malformed), colorize))
	}
	if view.LastRun != nil {
		kind := statusOK
		switch history.Outcome(view.LastRun.Outcome) {
		case history.OutcomeFailed:
			kind = statusError
		case history.OutcomeAborted:
			kind = statusWarn
		}
		msg := fmt.Sprintf("%s %s, %s", view.LastRun.Kind, view.LastRun.Outcome, humanize.Time(view.LastRun.FinishedAt))
		fmt.Fprintln(out, renderStatusLine("Last run", kind, msg, colorize))
	}
	fmt.Fprintln(out)

	if len(view.Periods) == 0 {
		fmt.Fprintln(out, "No entries yet. Run `leximi sync` to populate the dataset.")
		return
	}

	rows := make([][]string, 0, len(view.Periods))
	for _, p := range view.Periods {
		rows = append(rows, []string{
			p.Key,
			p.Label,
			strconv.Itoa(p.Entries),
			strconv.Itoa(p.LastDay),
			fmt.Sprintf("%d/%d", p.WithAudio, p.Entries),
			humanize.IBytes(uint64(p.AudioBytes)),
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{title: "Period"},
		{title: "Label"},
		{title: "Entries", numeric: true},
		{title: "Last day", numeric: true},
		{title: "Audio", numeric: true},
		{title: "Size", numeric: true},
	}, rows))
	fmt.Fprintf(out, "Total entries: %s\n", humanize.Comma(int64(view.Total)))
}
