package pipeline

import (
	"time"

	"leximi/internal/dataset"
)

// Warning is a non-fatal problem recorded during a run.
type Warning struct {
	EventType string
	Period    string
	VideoID   string
	Message   string
	Err       error
}

// Report summarizes one sync run.
type Report struct {
	RunID      string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	// Aborted is set when the feed could not be read; nothing was written.
	Aborted     bool
	AbortReason string

	FeedItems    int
	NewItems     int
	Added        []dataset.Candidate
	Duplicates   int
	DayConflicts []dataset.DayConflict
	Migrated     []string
	// Held lists periods left unwritten because their file has malformed
	// records.
	Held     []string
	Written  []string
	Warnings []Warning
}

// Noop reports a run that found nothing to add or rewrite.
func (r Report) Noop() bool {
	return !r.Aborted && len(r.Added) == 0 && len(r.Written) == 0 && len(r.Migrated) == 0
}

// Skipped counts feed items that produced no entry.
func (r Report) Skipped() int {
	skipped := r.NewItems - len(r.Added)
	if skipped < 0 {
		return 0
	}
	return skipped
}
