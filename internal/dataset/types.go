package dataset

import "errors"

// Reading is one seek point within a day's video.
type Reading struct {
	Title string `json:"title"`
	Start int    `json:"start"`
}

// DayEntry is the persisted unit for one day of the plan. Readings and
// VideoID never change once written; AudioFile may be added once.
type DayEntry struct {
	Day       int       `json:"day"`
	Date      string    `json:"date"`
	VideoID   string    `json:"videoId"`
	Readings  []Reading `json:"readings"`
	AudioFile string    `json:"audioFile,omitempty"`
}

// Dataset maps a period key to its entries, ordered by day.
type Dataset map[string][]DayEntry

// Candidate is a newly discovered entry destined for a period.
type Candidate struct {
	PeriodKey string
	Entry     DayEntry
}

// IndexEntry describes one populated period.
type IndexEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Size  int    `json:"size"`
}

// Index lists populated periods in calendar order.
type Index struct {
	Version int          `json:"version"`
	Periods []IndexEntry `json:"periods"`
}

const (
	// FormatVersion is written to the per-period header and index.json.
	FormatVersion = 1
	maxDay        = 31
)

// VideoIDs returns every video id in the dataset.
func (d Dataset) VideoIDs() map[string]struct{} {
	seen := make(map[string]struct{})
	for _, entries := range d {
		for _, entry := range entries {
			seen[entry.VideoID] = struct{}{}
		}
	}
	return seen
}

// Size returns the total number of entries.
func (d Dataset) Size() int {
	total := 0
	for _, entries := range d {
		total += len(entries)
	}
	return total
}

// Clone returns a dataset whose period slices can be modified without
// affecting d. Entries share their Readings slices, which are never edited.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	for key, entries := range d {
		out[key] = append([]DayEntry(nil), entries...)
	}
	return out
}

// Validate reports whether the entry satisfies the persisted-record rules.
func (e DayEntry) Validate() error {
	switch {
	case e.VideoID == "":
		return errors.New("videoId is required")
	case e.Day < 1 || e.Day > maxDay:
		return errors.New("day must be between 1 and 31")
	default:
		return nil
	}
}
