package audio

import "time"

// Warning is a non-fatal problem recorded during a run.
type Warning struct {
	EventType string
	Period    string
	VideoID   string
	Message   string
}

// Downloaded describes a file fetched during the run.
type Downloaded struct {
	Name   string
	Period string
	Day    int
	Size   int64
}

// Report summarizes one audio pass.
type Report struct {
	RunID      string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	// Linked counts entries whose file was already on disk.
	Linked     int
	Downloaded []Downloaded
	Failed     int
	// Deferred counts entries left for a later run by the download limit.
	Deferred int
	// Held counts periods skipped because their file has malformed records.
	Held int
	// Pending lists the files a dry run would download.
	Pending  []string
	Written  []string
	Warnings []Warning

	attempts int
}

// Bytes returns the total size of downloaded files.
func (r Report) Bytes() int64 {
	var total int64
	for _, d := range r.Downloaded {
		total += d.Size
	}
	return total
}

// Noop reports a pass that changed nothing.
func (r Report) Noop() bool {
	return r.Linked == 0 && len(r.Downloaded) == 0 && len(r.Written) == 0
}
